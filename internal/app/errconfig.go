package app

import (
	"net/http"

	"github.com/felixbrock/arigato/internal/components"
)

type errCtx struct {
	Code  int
	Title string
	Msg   string
}

func get400() errCtx {
	return errCtx{
		Code:  400,
		Title: "Bad request",
		Msg:   "Sorry, we couldn't understand that request.",
	}
}

func get404() errCtx {
	return errCtx{
		Code:  404,
		Title: "Not found",
		Msg:   "Sorry, we couldn't find the page you were looking for.",
	}
}

func get405() errCtx {
	return errCtx{
		Code:  405,
		Title: "Method not allowed",
		Msg:   "Sorry, this page does not support that method.",
	}
}

func get500() errCtx {
	return errCtx{
		Code:  500,
		Title: "Internal server error",
		Msg:   "Sorry, there was an internal server error.",
	}
}

func errorResponse(e errCtx, err error) *ComponentResponse {
	return &ComponentResponse{
		Error:       err,
		Message:     e.Msg,
		Code:        e.Code,
		ContentType: "text/html",
		Component:   components.ErrorPage(e.Code, e.Title, e.Msg),
	}
}

func htmlResponse(c component) *ComponentResponse {
	return &ComponentResponse{Component: c, Code: http.StatusOK, Message: "OK", ContentType: "text/html"}
}
