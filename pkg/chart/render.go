// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"
)

type renderer struct {
	templateFS    fs.FS
	templateFiles []string
	data          any
	outputName    string
	files         map[string][]byte
}

func newRenderer() *renderer {
	return &renderer{files: map[string][]byte{}}
}

func (r *renderer) withTemplateFS(fsys fs.FS) *renderer {
	r.templateFS = fsys
	return r
}

func (r *renderer) withTemplateFiles(files []string) *renderer {
	r.templateFiles = files
	return r
}

func (r *renderer) withTemplateData(data any) *renderer {
	r.data = data
	return r
}

func (r *renderer) withOutputName(name string) *renderer {
	r.outputName = name
	return r
}

// withFile adds a file that is written verbatim, relative to the chart root.
func (r *renderer) withFile(name string, content []byte) *renderer {
	r.files[name] = content
	return r
}

func (r *renderer) render() (*RenderResult, error) {
	tmp, err := os.MkdirTemp("", r.outputName)
	if err != nil {
		return nil, err
	}
	result := &RenderResult{Dir: tmp}

	for _, fname := range r.templateFiles {
		tpl, err := template.New(path.Base(fname)).Delims("<<", ">>").Funcs(funcMap()).ParseFS(r.templateFS, fname)
		if err != nil {
			_ = result.Close()
			return nil, err
		}

		f, err := os.Create(filepath.Join(tmp, path.Base(fname)))
		if err != nil {
			_ = result.Close()
			return nil, err
		}

		err = tpl.Execute(f, r.data)
		_ = f.Close()
		if err != nil {
			_ = result.Close()
			return nil, fmt.Errorf("failed to render %s: %w", path.Base(fname), err)
		}
	}

	for name, content := range r.files {
		outputPath := filepath.Join(tmp, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			_ = result.Close()
			return nil, err
		}
		if err := os.WriteFile(outputPath, content, 0o644); err != nil {
			_ = result.Close()
			return nil, err
		}
	}

	return result, nil
}
