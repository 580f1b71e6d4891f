/*
 *	Copyright 2024 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package cl

// This file handles locating and loading the OpenCL library (usually the ICD loader,
// libOpenCL.so) and is shared by the per-OS implementations (lib_<os>.go files), which
// provide:
//
//	osDefaultLibraryPaths() []string
//	osLibraryNames() []string

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// LibraryPathEnv is the name of the environment variable with the path(s) to search for
// the OpenCL library -- a ":" separated list of directories, or the path to the library
// file itself. If it is not set, per-OS default locations are searched (in Linux the
// LD_LIBRARY_PATH directories and the ones configured in /etc/ld.so.conf).
const LibraryPathEnv = "GOCL_OPENCL_LIBRARY"

// ErrNotLoaded is returned when the OpenCL library could not be found or loaded.
var ErrNotLoaded = errors.New("OpenCL library not loaded")

var (
	// librarySearchPaths is set during initialization from LibraryPathEnv or the per-OS
	// defaults (lib_<os>.go files).
	librarySearchPaths []string

	libOpenCL   uintptr
	libraryPath string
	loadOnce    sync.Once
	loadErr     error
)

func init() {
	value, found := os.LookupEnv(LibraryPathEnv)
	if !found {
		librarySearchPaths = osDefaultLibraryPaths()
		return
	}
	librarySearchPaths = slices.DeleteFunc(strings.Split(value, ":"), func(p string) bool {
		return p == "" // Remove empty paths.
	})
}

// Load finds and loads the OpenCL library and binds the package's function variables to
// its symbols. It is safe to call from multiple goroutines and it is a no-op after the
// first call: the first result is cached and returned by later calls.
//
// The library is searched in the LibraryPathEnv (GOCL_OPENCL_LIBRARY) directories if set,
// otherwise in the per-OS default locations.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr != nil {
			loadErr = errors.WithMessagef(loadErr, "loading OpenCL (searched %v)", librarySearchPaths)
		}
	})
	return loadErr
}

// Loaded returns whether the OpenCL library has been successfully loaded.
func Loaded() bool {
	return libOpenCL != 0 && loadErr == nil
}

// LibraryPath returns the path the OpenCL library was loaded from, or "" if not loaded.
func LibraryPath() string {
	return libraryPath
}

func doLoad() error {
	for _, searchPath := range librarySearchPaths {
		info, err := os.Stat(searchPath)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			// LibraryPathEnv pointed directly at the library file.
			if tryOpen(searchPath) {
				return registerFuncs(libOpenCL)
			}
			continue
		}
		for _, name := range osLibraryNames() {
			if tryOpen(filepath.Join(searchPath, name)) {
				return registerFuncs(libOpenCL)
			}
		}
	}

	// Last resort: bare sonames, letting the system linker resolve them.
	for _, name := range osLibraryNames() {
		if tryOpen(name) {
			return registerFuncs(libOpenCL)
		}
	}
	return errors.WithMessagef(ErrNotLoaded,
		"no OpenCL library found (tried %v): install an OpenCL ICD loader or set %s",
		osLibraryNames(), LibraryPathEnv)
}

func tryOpen(path string) bool {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		klog.V(2).Infof("failed to load OpenCL library candidate %q: %v", path, err)
		return false
	}
	klog.V(1).Infof("loaded OpenCL library from %q", path)
	libOpenCL = lib
	libraryPath = path
	return true
}
