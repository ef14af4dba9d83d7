package wiki

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestBuildMoveParams_Validation(t *testing.T) {
	tests := []struct {
		name      string
		args      MovePageArgs
		wantField string
	}{
		{"missing source", MovePageArgs{To: "New"}, "from"},
		{"missing target", MovePageArgs{From: "Old"}, "to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildMoveParams(tt.args)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if valErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", valErr.Field, tt.wantField)
			}
		})
	}
}

func TestBuildMoveParams_Encoding(t *testing.T) {
	params, err := buildMoveParams(MovePageArgs{
		From:         "Old Title",
		To:           "New Title",
		Reason:       "cleanup",
		MoveTalk:     true,
		MoveSubpages: true,
		NoRedirect:   true,
		Watchlist:    "watch",
		Tags:         []string{"bot-edit", "rename"},
	})
	if err != nil {
		t.Fatalf("buildMoveParams failed: %v", err)
	}
	checks := map[string]string{
		"from":         "Old Title",
		"to":           "New Title",
		"reason":       "cleanup",
		"movetalk":     "1",
		"movesubpages": "1",
		"noredirect":   "1",
		"watchlist":    "watch",
		"tags":         "bot-edit|rename",
	}
	for key, want := range checks {
		if got := params.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestBuildMoveParams_PreferencesWatchlistOmitted(t *testing.T) {
	params, err := buildMoveParams(MovePageArgs{From: "A", To: "B", Watchlist: "preferences"})
	if err != nil {
		t.Fatalf("buildMoveParams failed: %v", err)
	}
	if params.Has("watchlist") {
		t.Errorf("watchlist = %q, want absent for preferences", params.Get("watchlist"))
	}
}

func TestMovePage_SuccessWithTalkAndSubpages(t *testing.T) {
	server := mockMediaWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("action") != "move" {
			t.Errorf("action = %q, want move", r.FormValue("action"))
		}
		writeJSON(w, map[string]interface{}{
			"move": map[string]interface{}{
				"from":     "Old Title",
				"to":       "New Title",
				"reason":   "cleanup",
				"talkfrom": "Talk:Old Title",
				"talkto":   "Talk:New Title",
				"subpages": []interface{}{
					map[string]interface{}{"from": "Old Title/a", "to": "New Title/a"},
					map[string]interface{}{"from": "Old Title/b", "to": "New Title/b"},
				},
			},
		})
	})
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.MovePage(context.Background(), MovePageArgs{From: "Old Title", To: "New Title"})
	if err != nil {
		t.Fatalf("MovePage failed: %v", err)
	}
	for _, want := range []string{
		"Successfully moved page 'Old Title' to 'New Title'",
		"Reason: cleanup",
		"Talk page moved from 'Talk:Old Title' to 'Talk:New Title'",
		"2 subpages moved",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestFormatMoveResult_ErrorEnvelope(t *testing.T) {
	report := formatMoveResult(map[string]interface{}{
		"error": map[string]interface{}{
			"code": "articleexists",
			"info": "The destination article already exists.",
		},
	}, MovePageArgs{From: "A", To: "B"})
	want := "Move failed (articleexists): The destination article already exists."
	if report != want {
		t.Errorf("report = %q, want %q", report, want)
	}
}

func TestFormatMoveResult_EmptyReasonSuppressed(t *testing.T) {
	report := formatMoveResult(map[string]interface{}{
		"move": map[string]interface{}{
			"from":   "A",
			"to":     "B",
			"reason": "",
		},
	}, MovePageArgs{From: "A", To: "B"})
	if strings.Contains(report, "Reason:") {
		t.Errorf("report = %q, want no reason suffix for explicitly empty reason", report)
	}
}

func TestFormatMoveResult_DefaultReason(t *testing.T) {
	report := formatMoveResult(map[string]interface{}{
		"move": map[string]interface{}{"from": "A", "to": "B"},
	}, MovePageArgs{From: "A", To: "B"})
	if !strings.Contains(report, "Reason: No reason provided") {
		t.Errorf("report = %q, want default reason", report)
	}
}

func TestBuildDeleteParams_WatchPrecedence(t *testing.T) {
	tests := []struct {
		name string
		args DeletePageArgs
		want string
	}{
		{"watch wins over unwatch", DeletePageArgs{Title: "T", Watch: true, Unwatch: true, Watchlist: "unwatch"}, "watch"},
		{"unwatch wins over watchlist", DeletePageArgs{Title: "T", Unwatch: true, Watchlist: "watch"}, "unwatch"},
		{"watchlist value used", DeletePageArgs{Title: "T", Watchlist: "nochange"}, "nochange"},
		{"preferences omitted", DeletePageArgs{Title: "T", Watchlist: "preferences"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := buildDeleteParams(tt.args)
			if err != nil {
				t.Fatalf("buildDeleteParams failed: %v", err)
			}
			if got := params.Get("watchlist"); got != tt.want {
				t.Errorf("watchlist = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeletePage_Success(t *testing.T) {
	server := mockMediaWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("action") != "delete" {
			t.Errorf("action = %q, want delete", r.FormValue("action"))
		}
		writeJSON(w, map[string]interface{}{
			"delete": map[string]interface{}{
				"title":  "Spam Page",
				"reason": "spam",
				"logid":  float64(777),
			},
		})
	})
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.DeletePage(context.Background(), DeletePageArgs{Title: "Spam Page", Reason: "spam"})
	if err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	want := "Successfully deleted page 'Spam Page'. Reason: spam. Log ID: 777"
	if report != want {
		t.Errorf("report = %q, want %q", report, want)
	}
}

func TestFormatDeleteResult_Failure(t *testing.T) {
	report := formatDeleteResult(map[string]interface{}{
		"error": map[string]interface{}{
			"code": "permissiondenied",
			"info": "You do not have permission to delete this page.",
		},
	}, DeletePageArgs{Title: "Protected"})
	if !strings.HasPrefix(report, "Delete failed: ") {
		t.Errorf("report = %q, want Delete failed prefix", report)
	}
	if !strings.Contains(report, "permissiondenied") {
		t.Errorf("report does not carry the error code: %q", report)
	}
}

func TestBuildUndeleteParams_RequiresTitle(t *testing.T) {
	_, err := buildUndeleteParams(UndeletePageArgs{Reason: "restore"})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if valErr.Field != "title" {
		t.Errorf("Field = %q, want title", valErr.Field)
	}
}

func TestBuildUndeleteParams_Selectors(t *testing.T) {
	params, err := buildUndeleteParams(UndeletePageArgs{
		Title:      "Restored",
		Timestamps: []string{"2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z"},
		FileIDs:    []int{10, 20},
	})
	if err != nil {
		t.Fatalf("buildUndeleteParams failed: %v", err)
	}
	if got := params.Get("timestamps"); got != "2024-01-01T00:00:00Z|2024-02-01T00:00:00Z" {
		t.Errorf("timestamps = %q", got)
	}
	if got := params.Get("fileids"); got != "10|20" {
		t.Errorf("fileids = %q, want 10|20", got)
	}
}

func TestUndeletePage_Success(t *testing.T) {
	server := mockMediaWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("action") != "undelete" {
			t.Errorf("action = %q, want undelete", r.FormValue("action"))
		}
		writeJSON(w, map[string]interface{}{
			"undelete": map[string]interface{}{
				"title":        "Restored",
				"reason":       "mistake",
				"revisions":    float64(5),
				"fileversions": float64(1),
			},
		})
	})
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	report, err := client.UndeletePage(context.Background(), UndeletePageArgs{Title: "Restored"})
	if err != nil {
		t.Fatalf("UndeletePage failed: %v", err)
	}
	want := "Successfully undeleted page 'Restored'. Reason: mistake. Revisions restored: 5. File versions restored: 1."
	if report != want {
		t.Errorf("report = %q, want %q", report, want)
	}
}

func TestFormatUndeleteResult_ZeroCounts(t *testing.T) {
	report := formatUndeleteResult(map[string]interface{}{
		"undelete": map[string]interface{}{"title": "T"},
	}, UndeletePageArgs{Title: "T"})
	if !strings.Contains(report, "Revisions restored: 0") {
		t.Errorf("report = %q, want zero revisions", report)
	}
	if !strings.Contains(report, "File versions restored: 0.") {
		t.Errorf("report = %q, want zero file versions", report)
	}
}
