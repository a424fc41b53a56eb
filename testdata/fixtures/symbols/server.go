package server

import "net/http"

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":9238"

var (
	requests int
	_        = http.StatusOK
)

// Theme names a highlighting palette.
type Theme string

// Server answers highlighting requests.
type Server struct {
	Addr  string
	theme Theme
	http.Handler
}

// Renderer turns source into markup.
type Renderer interface {
	Render(code string) (string, error)
}

// NewServer returns a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{Addr: addr}
}

// Start begins serving.
func (s *Server) Start() error {
	helper := func() {}
	helper()
	return nil
}

func (s Server) theme() Theme { return s.theme }
