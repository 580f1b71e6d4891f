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

import (
	"os"
	"path"
	"strings"
)

// osLibraryNames returns the names tried in each search directory. In macOS OpenCL ships
// as a system framework, not a dylib.
func osLibraryNames() []string {
	return []string{"OpenCL.framework/OpenCL", "libOpenCL.dylib"}
}

// osDefaultLibraryPaths is called during initialization to set the default search paths.
func osDefaultLibraryPaths() []string {
	var paths []string
	for _, dyldPath := range strings.Split(os.Getenv("DYLD_LIBRARY_PATH"), ":") {
		if dyldPath == "" || !path.IsAbs(dyldPath) {
			// No empty or relative paths.
			continue
		}
		paths = append(paths, dyldPath)
	}
	paths = append(paths,
		"/System/Library/Frameworks",
		"/opt/homebrew/lib",
		"/usr/local/lib",
	)
	return paths
}
