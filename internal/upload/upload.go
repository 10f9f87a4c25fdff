// Package upload sends attendee photos to an external image host.
//
// An upload is modelled as a Task with three observable states so callers can
// tell a pending upload from a finished one without relying on timing.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNoURL    = errors.New("upload response carried no url")
	ErrNotImage = errors.New("file is not an image")
)

// Uploader stores an image and returns a publicly reachable URL for it.
type Uploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}

// WithTimeout bounds every upload made through u by d. A non-positive d leaves
// u unchanged.
func WithTimeout(u Uploader, d time.Duration) Uploader {
	if d <= 0 {
		return u
	}
	return timeoutUploader{u: u, d: d}
}

type timeoutUploader struct {
	u Uploader
	d time.Duration
}

func (t timeoutUploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.u.Upload(ctx, filename, body)
}

type State int

const (
	Pending State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Result struct {
	URL string
	Err error
}

func (r Result) State() State {
	if r.Err != nil {
		return Failed
	}
	return Succeeded
}

type Task struct {
	done chan struct{}
	res  Result
}

// Start runs the upload in its own goroutine. body must stay readable until the
// task is done.
func Start(ctx context.Context, u Uploader, filename string, body io.Reader) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		url, err := u.Upload(ctx, filename, body)
		if err == nil && strings.TrimSpace(url) == "" {
			err = ErrNoURL
		}
		if err != nil {
			t.res = Result{Err: err}
			return
		}
		t.res = Result{URL: url}
	}()
	return t
}

func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) State() State {
	select {
	case <-t.done:
		return t.res.State()
	default:
		return Pending
	}
}

// Wait blocks until the upload finishes or ctx ends. A cancelled wait reports a
// failed result; the upload itself keeps its own context.
func (t *Task) Wait(ctx context.Context) Result {
	select {
	case <-t.done:
		return t.res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

// sniffImage reads the leading bytes of body to detect its content type and
// returns a reader that still yields the full stream.
func sniffImage(body io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	ct := http.DetectContentType(head)
	if !strings.HasPrefix(ct, "image/") {
		return ct, nil, fmt.Errorf("%w (detected %s)", ErrNotImage, ct)
	}
	return ct, io.MultiReader(bytes.NewReader(head), body), nil
}
