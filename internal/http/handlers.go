package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kasereka12/BudgetTracer/internal/auth"
	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	applog "github.com/kasereka12/BudgetTracer/internal/log"
	"github.com/kasereka12/BudgetTracer/internal/store"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

// requestError is a malformed request; its message is returned as is.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// resource is one domain page as served for a single request.
type resource[R, D any] struct {
	collection string
	page       *controller.Page[R, D]
	draftFrom  func(forms.Values) D
	render     func() any
	// checkboxes are boolean fields an HTML form omits when unchecked.
	checkboxes []string
}

func (res resource[R, D]) changed() string { return res.collection }

func (res resource[R, D]) view() any { return res.render() }

// op runs one operation on a resource and returns the success status.
type op[R, D any] func(ctx context.Context, r *http.Request, res resource[R, D]) (int, error)

// serve builds the resource for the request, runs do and writes the
// refreshed view with any notification the operation produced.
func serve[R, D any](s *Server, build func(*http.Request, views.Deps) (resource[R, D], error), do op[R, D]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps, fb := s.deps(r)
		res, err := build(r, deps)
		if err != nil {
			s.fail(w, r, fb, err)
			return
		}

		status, err := do(r.Context(), r, res)
		if err != nil {
			s.fail(w, r, fb, err)
			return
		}

		s.writeView(w, r, fb, status, res)
	}
}

// writeView writes the refreshed view of res. Mutations also tell the
// client which collection changed.
func (s *Server) writeView(w http.ResponseWriter, r *http.Request, fb *requestFeedback, status int, res interface {
	changed() string
	view() any
}) {
	b := NewHTMXResponse().Status(status).JSON(res.view())
	if r.Method != http.MethodGet {
		b.TriggerRecordsChanged(res.changed())
	}
	if status == http.StatusCreated || r.Method == http.MethodPut {
		b.TriggerFormReset()
	}
	fb.apply(b).Write(w)
}

func listOp[R, D any](ctx context.Context, _ *http.Request, res resource[R, D]) (int, error) {
	return http.StatusOK, res.page.List.Refresh(ctx)
}

func createOp[R, D any](ctx context.Context, r *http.Request, res resource[R, D]) (int, error) {
	body, err := parseBody(r)
	if err != nil {
		return 0, err
	}
	res.page.Form.StartCreate()
	if err := fill(res, body); err != nil {
		return 0, err
	}
	if _, err := res.page.Form.Submit(ctx); err != nil {
		return 0, err
	}
	return http.StatusCreated, nil
}

func updateOp[R, D any](ctx context.Context, r *http.Request, res resource[R, D]) (int, error) {
	body, err := parseBody(r)
	if err != nil {
		return 0, err
	}
	rec, err := find(ctx, res, r.PathValue("id"))
	if err != nil {
		return 0, err
	}
	res.page.Form.StartEdit(rec)
	if err := fill(res, body, res.checkboxes...); err != nil {
		return 0, err
	}
	if _, err := res.page.Form.Submit(ctx); err != nil {
		return 0, err
	}
	return http.StatusOK, nil
}

func deleteOp[R, D any](ctx context.Context, r *http.Request, res resource[R, D]) (int, error) {
	return http.StatusOK, res.page.List.Remove(ctx, r.PathValue("id"))
}

// fill replaces the fields of the open draft that the body carries.
func fill[R, D any](res resource[R, D], body *RequestBodyParser, checkboxes ...string) error {
	values, err := overDraft(body, res.page.Form.Draft, checkboxes...)
	if err != nil {
		return err
	}
	res.page.Form.Draft = res.draftFrom(values)
	return nil
}

// find refreshes the list and returns the record with id.
func find[R, D any](ctx context.Context, res resource[R, D], id string) (R, error) {
	var zero R
	if err := res.page.List.Refresh(ctx); err != nil {
		return zero, err
	}
	rec, ok := res.page.List.Find(id)
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", res.collection, id, store.ErrNotFound)
	}
	return rec, nil
}

func parseBody(r *http.Request) (*RequestBodyParser, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return nil, badRequest("%v", err)
	}
	return p, nil
}

// deps returns the page collaborators of one request.
func (s *Server) deps(r *http.Request) (views.Deps, *requestFeedback) {
	fb := newRequestFeedback(r)
	return views.Deps{
		Services: s.services,
		Session:  s.auth,
		Feedback: fb,
		Today:    s.today,
	}, fb
}

// fail logs err and writes its status with the collected notification.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, fb *requestFeedback, err error) {
	status := statusFor(err)
	msg := publicMessage(status, err)
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		status, msg = http.StatusBadRequest, reqErr.msg
	}

	logger := applog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		fields := applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"))
		if id, ok := auth.FromContext(r.Context()); ok {
			fields[applog.FieldUserID] = id.ID
		}
		applog.NewStructuredLogger(logger).LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, applog.OpRequest, fields)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "status", status, "error", err)
	}

	var b *HTMXResponseBuilder
	switch status {
	case http.StatusBadRequest:
		b = BadRequestError(msg)
	case http.StatusNotFound:
		b = NotFoundError(msg)
	case http.StatusUnprocessableEntity:
		b = UnprocessableEntityError(msg)
	case http.StatusPreconditionRequired:
		b = ConfirmationRequiredError(msg)
	case http.StatusInternalServerError:
		b = InternalServerError(msg)
	default:
		b = ErrorResponse(status, msg)
	}
	fb.apply(b).Write(w)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready only while the record store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		applog.FromContext(r.Context()).WarnContext(ctx, "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
