package api

import (
	"fmt"
	"net/http"
	"reflect"
)

// Registrar is the interface accepted by the registration functions.
type Registrar interface {
	addRoute(ri routeInfo)
	getErrorHandler() ErrorHandler
}

func (r *Router) getErrorHandler() ErrorHandler { return r.errorHandler }

// register is the internal generic registration function.
func register[Req, Resp any](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	ri := routeInfo{
		method:  method,
		pattern: pattern,
	}

	for _, opt := range opts {
		opt(&ri)
	}

	// Void response → 204, otherwise 200.
	if ri.status == 0 {
		if reflect.TypeFor[Resp]() == reflect.TypeFor[Void]() {
			ri.status = http.StatusNoContent
		} else {
			ri.status = http.StatusOK
		}
	}

	ri.handler = buildHandler(h, ri.status, ri.bodyLimit, reg.getErrorHandler())
	reg.addRoute(ri)
}

// buildHandler wraps a typed Handler into an http.Handler.
func buildHandler[Req, Resp any](h Handler[Req, Resp], defaultStatus int, bodyLimit int64, errHandler ErrorHandler) http.Handler {
	writeErr := func(w http.ResponseWriter, r *http.Request, err error) {
		if errHandler != nil {
			errHandler(w, r, err)
			return
		}
		writeErrorResponse(w, err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bodyLimit > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
		}

		req, err := decodeRequest[Req](r)
		if err != nil {
			writeErr(w, r, bindError(err))
			return
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			writeErr(w, r, err)
			return
		}

		if _, ok := any(resp).(*Void); ok || resp == nil {
			w.WriteHeader(defaultStatus)
			return
		}

		encodeResponse(w, resp, defaultStatus)
	})
}

// Get registers a GET handler.
func Get[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST handler.
func Post[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT handler.
func Put[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPut, pattern, h, opts...)
}

// Delete registers a DELETE handler.
func Delete[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodDelete, pattern, h, opts...)
}

// Raw registers an untyped handler. Descriptor options apply as for typed
// routes; body binding and limits do not.
func Raw(reg Registrar, method, pattern string, h RawHandler, opts ...RouteOption) {
	ri := routeInfo{
		method:  method,
		pattern: pattern,
		handler: http.HandlerFunc(h),
	}
	for _, opt := range opts {
		opt(&ri)
	}
	if ri.status == 0 {
		ri.status = http.StatusOK
	}
	reg.addRoute(ri)
}

// Mount is Raw for patterns that come from configuration. A pattern the
// router rejects, such as one that collides with a registered route, is
// returned as an error instead of panicking.
func Mount(reg Registrar, method, pattern string, h RawHandler, opts ...RouteOption) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("mount %s %s: %v", method, pattern, rec)
		}
	}()
	Raw(reg, method, pattern, h, opts...)
	return nil
}
