package webview

import (
	"encoding/json"
	"errors"
	"reflect"
	"unsafe"
)

// Hints are used to configure window sizing and resizing.
type Hint int

const (
	HintNone Hint = iota
	HintFixed
	HintMin
	HintMax
)

var (
	ErrNotFunction     = errors.New("webview: only functions can be bound")
	ErrTooManyResults  = errors.New("webview: function may only return (value), (error), or (value, error)")
	ErrAlreadyBound    = errors.New("webview: name already bound")
	ErrNotBound        = errors.New("webview: name not bound")
	ErrArgumentCount   = errors.New("webview: argument count mismatch")
	ErrCreateFailed    = errors.New("webview: native library returned a null handle")
	ErrLibraryNotFound = errors.New("webview: native library not found")
)

// WebView describes the common interface for the embedded browser window.
type WebView interface {
	Run()
	Terminate()
	Dispatch(f func())
	Destroy()
	Window() unsafe.Pointer
	SetTitle(title string)
	SetSize(w, h int, hint Hint)
	Navigate(url string)
	SetHtml(html string)
	Init(js string)
	Eval(js string)
	Bind(name string, f any) error
	Unbind(name string) error
}

// New creates a new webview, debugging off/on, with its own native window.
func New(debug bool) (WebView, error) {
	return NewWindow(debug, nil)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// binding decodes a JSON argument array, calls the bound function and
// returns its value and error results.
type binding func(req string) (any, error)

func newBinding(f any) (binding, error) {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func {
		return nil, ErrNotFunction
	}
	funcType := v.Type()
	outCount := funcType.NumOut()
	if outCount > 2 {
		return nil, ErrTooManyResults
	}
	isVariadic := funcType.IsVariadic()
	numIn := funcType.NumIn()

	return func(req string) (any, error) {
		var rawArgs []json.RawMessage
		if err := json.Unmarshal([]byte(req), &rawArgs); err != nil {
			return nil, err
		}
		if (!isVariadic && len(rawArgs) != numIn) || (isVariadic && len(rawArgs) < numIn-1) {
			return nil, ErrArgumentCount
		}
		args := make([]reflect.Value, len(rawArgs))
		for i := range rawArgs {
			var argVal reflect.Value
			if isVariadic && i >= numIn-1 {
				argVal = reflect.New(funcType.In(numIn - 1).Elem())
			} else {
				argVal = reflect.New(funcType.In(i))
			}
			if err := json.Unmarshal(rawArgs[i], argVal.Interface()); err != nil {
				return nil, err
			}
			args[i] = argVal.Elem()
		}
		results := v.Call(args)

		switch outCount {
		case 0:
			return nil, nil
		case 1:
			if funcType.Out(0).Implements(errorType) {
				if e := results[0].Interface(); e != nil {
					return nil, e.(error)
				}
				return nil, nil
			}
			return results[0].Interface(), nil
		default:
			var err error
			if e := results[1].Interface(); e != nil {
				err = e.(error)
			}
			return results[0].Interface(), err
		}
	}, nil
}

// encodeResult turns a binding result into the status and JSON payload
// expected by webview_return.
func encodeResult(result any, err error) (int32, string) {
	if err != nil {
		b, _ := json.Marshal(err.Error())
		return 1, string(b)
	}
	b, merr := json.Marshal(result)
	if merr != nil {
		b, _ = json.Marshal(merr.Error())
		return 1, string(b)
	}
	return 0, string(b)
}
