package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

// Opener resolves a file control's metadata to its contents. The
// control tree carries metadata only; where the bytes live depends on
// the host application.
type Opener func(f ctree.File) (io.ReadCloser, error)

// Stage walks a submission snapshot and replaces every file leaf with
// staged handles. Each handle is a subtree carrying the temp ID and
// the metadata the backend needs to claim the file:
//
//	{"temp_id": "...", "filename": "...", "content_type": "...", "size": ...}
//
// The input snapshot is not modified.
func Stage(ctx context.Context, store Store, data path.Tree, open Opener) (path.Tree, error) {
	staged, err := stageValue(ctx, store, data, open)
	if err != nil {
		return nil, err
	}
	return staged.(path.Tree), nil
}

func stageValue(ctx context.Context, store Store, v any, open Opener) (any, error) {
	switch t := v.(type) {
	case path.Tree:
		out := make(path.Tree, len(t))
		for k, cv := range t {
			sv, err := stageValue(ctx, store, cv, open)
			if err != nil {
				return nil, err
			}
			out[k] = sv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, cv := range t {
			sv, err := stageValue(ctx, store, cv, open)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return out, nil
	case []ctree.File:
		out := make([]any, len(t))
		for i, f := range t {
			handle, err := stageFile(ctx, store, f, open)
			if err != nil {
				return nil, err
			}
			out[i] = handle
		}
		return out, nil
	default:
		return v, nil
	}
}

func stageFile(ctx context.Context, store Store, f ctree.File, open Opener) (path.Tree, error) {
	r, err := open(f)
	if err != nil {
		return nil, fmt.Errorf("upload: open %q: %w", f.Name, err)
	}
	defer r.Close()

	tempID, err := store.Save(ctx, f.Name, f.ContentType, f.Size, r)
	if err != nil {
		return nil, fmt.Errorf("upload: stage %q: %w", f.Name, err)
	}
	return path.Tree{
		"temp_id":      tempID,
		"filename":     f.Name,
		"content_type": f.ContentType,
		"size":         f.Size,
	}, nil
}

// Action wraps a submit action so file leaves are staged before the
// wrapped action sees the snapshot. The wrapped action receives the
// staged copy; the binding's stores keep the original file values.
func Action(store Store, open Opener, next form.SubmitFunc) form.SubmitFunc {
	return func(ctx context.Context, data path.Tree, sc *form.SubmitContext) error {
		staged, err := Stage(ctx, store, data, open)
		if err != nil {
			return err
		}
		return next(ctx, staged, sc)
	}
}
