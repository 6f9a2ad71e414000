package http

import (
	"bytes"
	"context"
	stdhttp "net/http"

	"github.com/a-h/templ"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

func renderComponent(ctx context.Context, component templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, eris.Wrap(err, "rendering component")
	}
	return buf.Bytes(), nil
}

// renderPage renders component as a 200 response, or an error page when rendering fails.
func (s *Server) renderPage(ctx context.Context, component templ.Component, what string, fields logrus.Fields) (*htmlResponse, error) {
	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering "+what, fields)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the "+what+" right now.")
	}
	return newHTMLResponse(stdhttp.StatusOK, body), nil
}
