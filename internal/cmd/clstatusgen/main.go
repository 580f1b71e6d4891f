// clstatusgen parses the Khronos OpenCL headers (pointed by OPENCL_HEADERS env variable,
// a clone of github.com/KhronosGroup/OpenCL-Headers) and generates the Status constants
// and name table of package cl.
//
// It takes every error code of CL/cl.h plus the ones defined by the extensions the
// package binds (currently only cl_khr_icd) from CL/cl_ext.h.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/janpfeifer/gonb/common"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

const headersEnvVar = "OPENCL_HEADERS"

var flagOut = flag.String("out", "statuscodes.go", "output file, relative to the cl package directory")

// scrapedExtensions are the cl_ext.h extension blocks whose error codes the cl package
// knows about.
var scrapedExtensions = map[string]bool{
	"cl_khr_icd": true,
}

// code is one CL_* error define.
type code struct {
	clName string
	goName string
	value  int
}

// reErrorDefine matches e.g. "#define CL_DEVICE_NOT_FOUND   -1". Error codes are the
// only CL_* defines with zero or negative decimal values, which keeps parameter and
// bitfield constants out.
var reErrorDefine = regexp.MustCompile(`(?m)^#define\s+(CL_[A-Z0-9_]+)\s+(-?\d+)\s*$`)

// reExtensionBanner matches the "* cl_khr_icd" line of a cl_ext.h section banner.
var reExtensionBanner = regexp.MustCompile(`(?m)^\* (cl_[a-z0-9_]+)$`)

// goAcronyms are name segments kept fully uppercase in the Go constant names.
var goAcronyms = map[string]bool{
	"GL":  true,
	"ID":  true,
	"KHR": true,
	"EXT": true,
}

// goName converts CL_INVALID_GL_OBJECT to InvalidGLObject.
func goName(clName string) string {
	var sb strings.Builder
	for _, segment := range strings.Split(strings.TrimPrefix(clName, "CL_"), "_") {
		if goAcronyms[segment] {
			sb.WriteString(segment)
			continue
		}
		sb.WriteString(segment[:1])
		sb.WriteString(strings.ToLower(segment[1:]))
	}
	return sb.String()
}

// clErrorSection cuts cl.h down to its "/* Error Codes */" block, so defines like
// CL_FALSE (also 0) stay out.
func clErrorSection(contents string) string {
	start := strings.Index(contents, "/* Error Codes */")
	if start < 0 {
		klog.Exitf("cl.h has no \"/* Error Codes */\" section")
	}
	section := contents[start:]
	end := strings.Index(section, "/* cl_bool */")
	if end < 0 {
		klog.Exitf("cl.h \"/* Error Codes */\" section does not end at \"/* cl_bool */\"")
	}
	return section[:end]
}

// scrapeErrorCodes collects the error defines of one header chunk.
func scrapeErrorCodes(contents string) []code {
	var codes []code
	for _, matches := range reErrorDefine.FindAllStringSubmatch(contents, -1) {
		value := must.M1(strconv.Atoi(matches[2]))
		if value > 0 {
			continue
		}
		codes = append(codes, code{clName: matches[1], goName: goName(matches[1]), value: value})
	}
	return codes
}

// scrapeExtensionCodes collects the error defines of the cl_ext.h blocks listed in
// scrapedExtensions. Extension codes are all negative, so CL_SUCCESS shows up only once.
func scrapeExtensionCodes(contents string) []code {
	var codes []code
	for _, chunk := range strings.Split(contents, "/***") {
		banner := reExtensionBanner.FindStringSubmatch(chunk)
		if banner == nil || !scrapedExtensions[banner[1]] {
			continue
		}
		for _, c := range scrapeErrorCodes(chunk) {
			if c.value < 0 {
				codes = append(codes, c)
			}
		}
	}
	return codes
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	headersDir := os.Getenv(headersEnvVar)
	if headersDir == "" {
		klog.Exitf("Please set %s to the directory containing the cloned "+
			"github.com/KhronosGroup/OpenCL-Headers repository.", headersEnvVar)
	}
	headersDir = common.ReplaceTildeInDir(headersDir)

	clH := string(must.M1(os.ReadFile(path.Join(headersDir, "CL", "cl.h"))))
	clExtH := string(must.M1(os.ReadFile(path.Join(headersDir, "CL", "cl_ext.h"))))
	codes := append(scrapeErrorCodes(clErrorSection(clH)), scrapeExtensionCodes(clExtH)...)
	if len(codes) == 0 {
		klog.Exitf("No error codes found under %s -- wrong headers directory?", headersDir)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].value > codes[j].value })
	klog.Infof("Scraped %d error codes (%s .. %s)", len(codes), codes[0].clName, codes[len(codes)-1].clName)

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by clstatusgen from CL/cl.h and CL/cl_ext.h. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package cl\n\n")
	fmt.Fprintf(&b, "const (\n")
	for _, c := range codes {
		fmt.Fprintf(&b, "\t%s Status = %d\n", c.goName, c.value)
	}
	fmt.Fprintf(&b, ")\n\n")
	fmt.Fprintf(&b, "var statusNames = map[Status]string{\n")
	for _, c := range codes {
		fmt.Fprintf(&b, "\t%s: %q,\n", c.goName, c.clName)
	}
	fmt.Fprintf(&b, "}\n")

	formatted := must.M1(format.Source(b.Bytes()))
	must.M(os.WriteFile(*flagOut, formatted, 0644))
	klog.Infof("Wrote %s", *flagOut)
}
