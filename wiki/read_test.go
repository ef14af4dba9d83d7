package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetPage_RequiresIdentifier(t *testing.T) {
	server := mockMediaWikiServer(t, failIfContacted(t))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	_, err := client.GetPage(context.Background(), GetPageArgs{})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
}

func TestGetPage_RevisionsDefault(t *testing.T) {
	server := mockMediaWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("prop") != "revisions" {
			t.Errorf("prop = %q, want revisions", r.FormValue("prop"))
		}
		if r.FormValue("rvslots") != "*" {
			t.Errorf("rvslots = %q, want *", r.FormValue("rvslots"))
		}
		writeJSON(w, map[string]interface{}{
			"query": map[string]interface{}{
				"pages": []interface{}{
					map[string]interface{}{
						"title":  "Main Page",
						"pageid": float64(1),
						"revisions": []interface{}{
							map[string]interface{}{
								"slots": map[string]interface{}{
									"main": map[string]interface{}{
										"content": "Welcome to the wiki",
									},
								},
							},
						},
					},
				},
			},
		})
	})
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.GetPage(context.Background(), GetPageArgs{Title: "Main Page"})
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if !strings.Contains(report, "Page: Main Page (ID: 1)") {
		t.Errorf("report missing page header: %q", report)
	}
	if !strings.Contains(report, "Method: Revisions API") {
		t.Errorf("report missing method line: %q", report)
	}
	if !strings.Contains(report, "Welcome to the wiki") {
		t.Errorf("report missing content: %q", report)
	}
}

func TestGetPage_MissingPage(t *testing.T) {
	server := mockMediaWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"query": map[string]interface{}{
				"pages": []interface{}{
					map[string]interface{}{
						"title":   "Missing",
						"missing": true,
					},
				},
			},
		})
	})
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.GetPage(context.Background(), GetPageArgs{Title: "Missing"})
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if report != "Page not found: Missing" {
		t.Errorf("report = %q, want %q", report, "Page not found: Missing")
	}
}

func TestGetPage_Raw(t *testing.T) {
	server := newRawPageServer(t, "'''Bold''' wikitext")
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.GetPage(context.Background(), GetPageArgs{Title: "Sandbox", Method: "raw"})
	if err != nil {
		t.Fatalf("GetPage raw failed: %v", err)
	}
	if !strings.HasPrefix(report, "Page: Sandbox (Raw Wikitext)\n\n") {
		t.Errorf("report = %q, want raw header", report)
	}
	if !strings.Contains(report, "'''Bold''' wikitext") {
		t.Errorf("report missing body: %q", report)
	}
}

// newRawPageServer serves body as plain text for action=raw requests
func newRawPageServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("action") != "raw" {
			t.Errorf("action = %q, want raw", r.FormValue("action"))
		}
		_, _ = w.Write([]byte(body))
	}))
}

func TestGetPage_ParseHTML(t *testing.T) {
	server := mockMediaWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("action") != "parse" {
			t.Errorf("action = %q, want parse", r.FormValue("action"))
		}
		if r.FormValue("prop") != "text" {
			t.Errorf("prop = %q, want text for html format", r.FormValue("prop"))
		}
		writeJSON(w, map[string]interface{}{
			"parse": map[string]interface{}{
				"title":  "Rendered",
				"pageid": float64(9),
				"text":   "<p>Hello</p>",
			},
		})
	})
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.GetPage(context.Background(), GetPageArgs{Title: "Rendered", Method: "parse", Format: "html"})
	if err != nil {
		t.Fatalf("GetPage parse failed: %v", err)
	}
	if !strings.Contains(report, "Format: HTML") {
		t.Errorf("report missing HTML label: %q", report)
	}
	if !strings.Contains(report, "<p>Hello</p>") {
		t.Errorf("report missing rendered content: %q", report)
	}
}

func TestGetPage_ExtractsSentences(t *testing.T) {
	server := mockMediaWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("exsentences") != "3" {
			t.Errorf("exsentences = %q, want 3", r.FormValue("exsentences"))
		}
		if r.FormValue("exchars") != "" {
			t.Errorf("exchars = %q, want absent when sentences set", r.FormValue("exchars"))
		}
		if r.FormValue("explaintext") != "1" {
			t.Errorf("explaintext = %q, want 1 for text format", r.FormValue("explaintext"))
		}
		writeJSON(w, map[string]interface{}{
			"query": map[string]interface{}{
				"pages": []interface{}{
					map[string]interface{}{
						"title":   "Norway",
						"pageid":  float64(5),
						"extract": "Norway is a Nordic country.",
					},
				},
			},
		})
	})
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.GetPage(context.Background(), GetPageArgs{
		Title:     "Norway",
		Method:    "extracts",
		Format:    "text",
		Sentences: 3,
		Chars:     500,
	})
	if err != nil {
		t.Fatalf("GetPage extracts failed: %v", err)
	}
	if !strings.Contains(report, "Format: Plain Text (Limited to 3 sentences)") {
		t.Errorf("report missing format line: %q", report)
	}
	if !strings.Contains(report, "Norway is a Nordic country.") {
		t.Errorf("report missing extract: %q", report)
	}
}

func TestFormatExtractsResult_CharsLimit(t *testing.T) {
	resp := map[string]interface{}{
		"query": map[string]interface{}{
			"pages": []interface{}{
				map[string]interface{}{
					"title":   "T",
					"pageid":  float64(1),
					"extract": "<p>Short</p>",
				},
			},
		},
	}
	report, err := formatExtractsResult(resp, GetPageArgs{Title: "T", Chars: 200})
	if err != nil {
		t.Fatalf("formatExtractsResult failed: %v", err)
	}
	if !strings.Contains(report, "Format: Limited HTML (Limited to 200 characters)") {
		t.Errorf("report = %q, want chars limit note", report)
	}
}

func TestFormatRevisionsResult_UnexpectedShape(t *testing.T) {
	_, err := formatRevisionsResult(map[string]interface{}{
		"batchcomplete": true,
	}, GetPageArgs{Title: "T"})
	var shapeErr *UnexpectedShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Expected UnexpectedShapeError, got %T: %v", err, err)
	}
	if !strings.Contains(shapeErr.Error(), "Revisions API") {
		t.Errorf("error = %q, want operation name", shapeErr.Error())
	}
}

func TestFormatRevisionsResult_NoRevisions(t *testing.T) {
	report, err := formatRevisionsResult(map[string]interface{}{
		"query": map[string]interface{}{
			"pages": []interface{}{
				map[string]interface{}{"title": "Empty", "pageid": float64(3)},
			},
		},
	}, GetPageArgs{Title: "Empty"})
	if err != nil {
		t.Fatalf("formatRevisionsResult failed: %v", err)
	}
	if !strings.Contains(report, "No content available") {
		t.Errorf("report = %q, want no-content note", report)
	}
}
