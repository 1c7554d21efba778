package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const fallbackID = "suspense-fallback"

// Deferred is a page whose content is not available when the response
// starts. The page template must define "fallback" and "content".
type Deferred struct {
	Name  string
	Title string
	// Resolve produces the page content. It runs after the fallback has been
	// flushed to the client.
	Resolve func(ctx context.Context) (any, error)
}

// Stream writes the document head and the page's fallback, flushes, then
// resolves the content and writes it along with a rule hiding the fallback.
// The fallback is always written before the resolved content, and the swap
// happens at most once. If the request is cancelled before Resolve returns,
// nothing further is written.
func (s *Shell) Stream(w http.ResponseWriter, r *http.Request, d Deferred) error {
	t, err := s.page(d.Name)
	if err != nil {
		return err
	}

	ctx := r.Context()
	doc := s.document(r, d.Title, nil)

	setDocumentHeaders(w, doc.Nonce)
	w.WriteHeader(http.StatusOK)

	if err := t.ExecuteTemplate(w, "document-start", doc); err != nil {
		return fmt.Errorf("layout: stream %s: %w", d.Name, err)
	}
	if _, err := fmt.Fprintf(w, "<div id=%q>", fallbackID); err != nil {
		return err
	}
	if err := t.ExecuteTemplate(w, "fallback", doc); err != nil {
		return fmt.Errorf("layout: stream %s fallback: %w", d.Name, err)
	}
	if _, err := io.WriteString(w, "</div>"); err != nil {
		return err
	}
	if err := http.NewResponseController(w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}

	content, err := d.Resolve(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		// Leave the fallback in place and close the document.
		if execErr := t.ExecuteTemplate(w, "document-end", doc); execErr != nil {
			return errors.Join(err, execErr)
		}
		return err
	}

	doc.Content = content
	if _, err := fmt.Fprintf(w, "<style nonce=%q>#%s{display:none}</style>", doc.Nonce, fallbackID); err != nil {
		return err
	}
	if err := t.ExecuteTemplate(w, "content", doc); err != nil {
		return fmt.Errorf("layout: stream %s content: %w", d.Name, err)
	}
	return t.ExecuteTemplate(w, "document-end", doc)
}
