package ocl

import (
	"bytes"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/gomlx/gocl/cl"
)

// infoKey identifies one cached query result. Queries that involve an
// auxiliary object (a device, for per-device program and kernel parameters)
// key on its handle too, so the same param against different devices caches
// separately.
type infoKey struct {
	param uint32
	aux   cl.Handle
}

// infoFunc is the common shape of the native clGet*Info entry points: the
// size-then-fill convention, extended with an auxiliary handle that most
// queries ignore. infoFn1 and infoFn2 adapt the typed cl functions to it.
type infoFunc func(obj, aux cl.Handle, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status

// infoFn1 adapts a query that takes only the primary object, like
// cl.GetPlatformInfo.
func infoFn1[H ~uintptr](call func(obj H, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status) infoFunc {
	return func(obj, _ cl.Handle, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
		return call(H(obj), param, size, value, sizeRet)
	}
}

// infoFn2 adapts a query keyed on a secondary object as well, like
// cl.GetProgramBuildInfo.
func infoFn2[H, A ~uintptr](call func(obj H, aux A, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status) infoFunc {
	return func(obj, aux cl.Handle, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
		return call(H(obj), A(aux), param, size, value, sizeRet)
	}
}

// getInfo runs the generic two-call native query with memoization.
//
// With useCache, a cached entry for (param, aux) is returned without touching
// the native API. On a miss, or with useCache false, the query is asked for
// the value's size, a fresh buffer is filled by a second call and stored under
// the key (replacing any previous entry) before being returned. A failed
// native call, or a reported size of zero (ErrInfoUnavailable), leaves the
// cache exactly as it was.
//
// The returned buffer is the cache entry itself: callers must not modify it.
// It stays valid until the wrapper is destroyed.
func (w *wrapperBase) getInfo(aux Wrapper, param uint32, query infoFunc, useCache bool) ([]byte, error) {
	var auxHandle cl.Handle
	if aux != nil {
		auxHandle = aux.Handle()
	}
	key := infoKey{param: param, aux: auxHandle}
	if useCache {
		w.infoMu.Lock()
		cached, found := w.info[key]
		w.infoMu.Unlock()
		if found {
			return cached, nil
		}
	}
	var size uintptr
	if status := query(w.handle, auxHandle, param, 0, nil, &size); status != cl.Success {
		return nil, &QueryError{Class: w.class, Param: param, Status: status}
	}
	if size == 0 {
		return nil, errors.WithMessagef(ErrInfoUnavailable, "%s info query 0x%04X", w.class, param)
	}
	buf := make([]byte, size)
	if status := query(w.handle, auxHandle, param, size, unsafe.Pointer(unsafe.SliceData(buf)), nil); status != cl.Success {
		return nil, &QueryError{Class: w.class, Param: param, Status: status}
	}
	w.infoMu.Lock()
	if w.info == nil {
		w.info = make(map[infoKey][]byte)
	}
	w.info[key] = buf
	w.infoMu.Unlock()
	return buf, nil
}

// infoScalar reinterprets an info buffer as a fixed-size value, the Go
// rendition of the C-side *(T*) cast on the returned pointer.
func infoScalar[T any](buf []byte) T {
	var v T
	if uintptr(len(buf)) < unsafe.Sizeof(v) {
		panicf("info buffer holds %d bytes, need at least %d", len(buf), unsafe.Sizeof(v))
	}
	return *(*T)(unsafe.Pointer(unsafe.SliceData(buf)))
}

// infoSlice reinterprets an info buffer as a slice of fixed-size values. The
// result aliases the cached buffer and must not be modified.
func infoSlice[T any](buf []byte) []T {
	var v T
	n := uintptr(len(buf)) / unsafe.Sizeof(v)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n)
}

// infoString converts a NUL-terminated info buffer to a Go string.
func infoString(buf []byte) string {
	return string(bytes.TrimRight(buf, "\x00"))
}

// scalarInfo queries and casts in one step.
func scalarInfo[T any](w *wrapperBase, aux Wrapper, param uint32, query infoFunc, useCache bool) (T, error) {
	buf, err := w.getInfo(aux, param, query, useCache)
	if err != nil {
		var zero T
		return zero, err
	}
	return infoScalar[T](buf), nil
}

// sliceInfo queries and reinterprets in one step. The result aliases the
// cached buffer and must not be modified.
func sliceInfo[T any](w *wrapperBase, aux Wrapper, param uint32, query infoFunc, useCache bool) ([]T, error) {
	buf, err := w.getInfo(aux, param, query, useCache)
	if err != nil {
		return nil, err
	}
	return infoSlice[T](buf), nil
}

// stringInfo queries and converts in one step.
func stringInfo(w *wrapperBase, aux Wrapper, param uint32, query infoFunc, useCache bool) (string, error) {
	buf, err := w.getInfo(aux, param, query, useCache)
	if err != nil {
		return "", err
	}
	return infoString(buf), nil
}
