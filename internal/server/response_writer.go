package server

import "net/http"

// responseWriter records the status and whether anything was written.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	bytes      int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader writes the status once; later calls are ignored.
func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.written {
		return
	}
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
	rw.written = true
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Status returns the written status code.
func (rw *responseWriter) Status() int { return rw.statusCode }

// Written reports whether the header has been sent.
func (rw *responseWriter) Written() bool { return rw.written }

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
