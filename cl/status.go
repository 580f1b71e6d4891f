/*
 *	Copyright 2023 Jan Pfeifer
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
	"fmt"

	"github.com/pkg/errors"
)

// Status is the cl_int status returned by every OpenCL call: 0 (Success) or a negative
// error code. It implements error, so a non-success Status can be returned (or wrapped)
// directly -- the same pattern as syscall.Errno.
//
// The constant block and name table live in statuscodes.go, generated from CL/cl.h by
// internal/cmd/clstatusgen.
//
//go:generate go run ../internal/cmd/clstatusgen -out statuscodes.go
type Status int32

// String returns the CL_* name of the status code as spelled in cl.h, or the numeric value
// if the code is unknown.
func (s Status) String() string {
	if name, found := statusNames[s]; found {
		return name
	}
	return fmt.Sprintf("unknown OpenCL status (%d)", int32(s))
}

// Error implements the error interface. Only non-success values should ever be used as
// errors.
func (s Status) Error() string {
	return fmt.Sprintf("OpenCL error %d (%s)", int32(s), s.String())
}

// Err returns nil if s is Success, otherwise s wrapped with a stack trace.
func (s Status) Err() error {
	if s == Success {
		return nil
	}
	return errors.WithStack(s)
}
