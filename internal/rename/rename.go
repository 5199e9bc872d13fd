package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"boxcar/internal/services"
)

// maxSuffixAttempts bounds the collision scan so a pathological directory
// cannot spin the resolver forever.
const maxSuffixAttempts = 10000

const dryRunPrefix = "DRY RUN: "

// Target describes the destination chosen for one document.
type Target struct {
	Path     string
	Suffix   int
	SameFile bool
}

// Resolve computes a non-clobbering destination for baseName+extension inside
// dir. When the naive target exists and is a different file than sourcePath,
// suffixes _1, _2, ... are tried until a free name is found. A target that
// already is the source file is reported via SameFile so callers skip the
// move.
func Resolve(dir, baseName, extension, sourcePath string) (Target, error) {
	if strings.TrimSpace(baseName) == "" {
		return Target{}, services.Wrap(
			services.ErrValidation,
			"renaming",
			"resolve target",
			"empty target base name",
			nil,
		)
	}
	ext := normalizeExtension(extension)

	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Target{}, services.Wrap(
				services.ErrNotFound,
				"renaming",
				"resolve target",
				fmt.Sprintf("source file %s does not exist", sourcePath),
				err,
			)
		}
		return Target{}, services.Wrap(
			services.ErrTransient,
			"renaming",
			"resolve target",
			"failed to stat source file",
			err,
		)
	}

	for suffix := 0; suffix <= maxSuffixAttempts; suffix++ {
		name := baseName + ext
		if suffix > 0 {
			name = fmt.Sprintf("%s_%d%s", baseName, suffix, ext)
		}
		candidate := filepath.Join(dir, name)

		info, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return Target{Path: candidate, Suffix: suffix}, nil
		}
		if err != nil {
			return Target{}, services.Wrap(
				services.ErrTransient,
				"renaming",
				"resolve target",
				fmt.Sprintf("failed to stat candidate %s", candidate),
				err,
			)
		}
		if os.SameFile(info, sourceInfo) {
			return Target{Path: candidate, Suffix: suffix, SameFile: true}, nil
		}
	}

	return Target{}, services.Wrap(
		services.ErrValidation,
		"renaming",
		"resolve target",
		fmt.Sprintf("no free name for %s after %d suffixes", baseName, maxSuffixAttempts),
		nil,
	)
}

// Apply resolves the destination and performs the move. Resolution happens
// immediately before the rename so a name created since the caller last
// looked still gets a fresh suffix. Dry runs compute the identical target and
// note without touching the filesystem. The returned note is what the run
// journal records for the document.
func Apply(source, dir, baseName, extension string, dryRun bool) (Target, string, error) {
	target, err := Resolve(dir, baseName, extension, source)
	if err != nil {
		return Target{}, "", err
	}

	note := buildNote(target, dryRun)
	if dryRun || target.SameFile {
		return target, note, nil
	}

	if err := os.Rename(source, target.Path); err != nil {
		return Target{}, "", services.Wrap(
			services.ErrTransient,
			"renaming",
			"rename",
			fmt.Sprintf("failed to rename %s", source),
			err,
		)
	}
	return target, note, nil
}

func buildNote(target Target, dryRun bool) string {
	var note string
	switch {
	case target.SameFile:
		note = fmt.Sprintf("already named %s", filepath.Base(target.Path))
	case target.Suffix > 0:
		note = fmt.Sprintf("renamed to %s (suffix _%d avoided collision)", filepath.Base(target.Path), target.Suffix)
	default:
		note = fmt.Sprintf("renamed to %s", filepath.Base(target.Path))
	}
	if dryRun {
		return dryRunPrefix + note
	}
	return note
}

func normalizeExtension(extension string) string {
	ext := strings.TrimSpace(extension)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
