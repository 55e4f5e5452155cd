package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"stylebridge/config"
	"stylebridge/ir"
	"stylebridge/state"
)

// buildOutputPath returns output file path for style converted from src
// (path relative to the source root, including file name). Default name is
// source base name, user template may replace it and may introduce
// subdirectories. Input directory structure is kept unless NoDirs is set.
func buildOutputPath(style *ir.Style, src, dst string, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	ext := env.Target.Ext()
	defaultFile := buildDefaultFileName(src, env) + ext

	if env.Cfg.Conversion.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandOutputNameTemplate(style, src, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, expandedName, ext, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	return cleanPathSegment(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)), env)
}

func expandOutputNameTemplate(style *ir.Style, src string, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(style, src, config.OutputNameTemplateFieldName, env.Cfg.Conversion.OutputNameTemplate, env.Target)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(filepath.FromSlash(expandedName))
}

// assemblePathWithSubdirs cleans (and transliterates if requested) every
// segment of expanded name and roots it at outDir.
func assemblePathWithSubdirs(outDir, expandedName, ext string, env *state.LocalEnv) string {
	segments := splitPath(expandedName)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+ext)
	return filepath.Join(parts...)
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)
	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Conversion.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
