package upload_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
	"github.com/formic-dev/formic/pkg/upload"
)

func memOpener(contents map[string]string) upload.Opener {
	return func(f ctree.File) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(contents[f.Name])), nil
	}
}

func TestStageReplacesFileLeaves(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 0)
	ctx := context.Background()

	data := path.Tree{
		"name": "Ada",
		"docs": path.Tree{
			"attachments": []ctree.File{
				{Name: "cv.pdf", Size: 6, ContentType: "application/pdf"},
			},
		},
	}
	open := memOpener(map[string]string{"cv.pdf": "pdfpdf"})

	staged, err := upload.Stage(ctx, store, data, open)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}

	// The original snapshot still carries the file values.
	docs := data["docs"].(path.Tree)
	if _, ok := docs["attachments"].([]ctree.File); !ok {
		t.Fatal("input snapshot was modified")
	}

	if staged["name"] != "Ada" {
		t.Errorf("name = %v, want Ada", staged["name"])
	}
	handles, ok := staged["docs"].(path.Tree)["attachments"].([]any)
	if !ok || len(handles) != 1 {
		t.Fatalf("attachments = %#v, want one handle", staged["docs"])
	}
	handle := handles[0].(path.Tree)
	tempID, _ := handle["temp_id"].(string)
	if tempID == "" {
		t.Fatal("handle has no temp_id")
	}

	want := path.Tree{
		"temp_id":      tempID,
		"filename":     "cv.pdf",
		"content_type": "application/pdf",
		"size":         int64(6),
	}
	if diff := cmp.Diff(want, handle); diff != "" {
		t.Errorf("handle mismatch (-want +got):\n%s", diff)
	}

	// The backend can claim the staged bytes.
	file, err := store.Claim(ctx, tempID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	defer file.Close()
	got, _ := io.ReadAll(file.Reader)
	if string(got) != "pdfpdf" {
		t.Errorf("claimed content = %q, want pdfpdf", got)
	}
}

func TestStageWalksSequences(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 0)
	open := memOpener(map[string]string{"a.txt": "a", "b.txt": "b"})

	data := path.Tree{
		"rows": []any{
			path.Tree{"file": []ctree.File{{Name: "a.txt", Size: 1, ContentType: "text/plain"}}},
			path.Tree{"file": []ctree.File{{Name: "b.txt", Size: 1, ContentType: "text/plain"}}},
		},
	}

	staged, err := upload.Stage(context.Background(), store, data, open)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}

	rows := staged["rows"].([]any)
	for i, name := range []string{"a.txt", "b.txt"} {
		handles := rows[i].(path.Tree)["file"].([]any)
		if got := handles[0].(path.Tree)["filename"]; got != name {
			t.Errorf("rows[%d] filename = %v, want %s", i, got, name)
		}
	}
}

func TestActionStagesBeforeSubmit(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 0)
	open := memOpener(map[string]string{"cv.pdf": "pdf"})

	var seen path.Tree
	next := func(_ context.Context, data path.Tree, _ *form.SubmitContext) error {
		seen = data
		return nil
	}

	submit := upload.Action(store, open, next)
	data := path.Tree{
		"attachments": []ctree.File{{Name: "cv.pdf", Size: 3, ContentType: "application/pdf"}},
	}
	if err := submit(context.Background(), data, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, ok := seen["attachments"].([]any); !ok {
		t.Fatalf("wrapped action saw %#v, want staged handles", seen["attachments"])
	}
}
