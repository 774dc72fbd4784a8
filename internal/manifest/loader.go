package manifest

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/typeboot/internal/ctxlog"
	"github.com/vk/typeboot/internal/fsutil"
)

// Extension is the file extension Load picks up when walking directories.
const Extension = ".hcl"

// Load parses every manifest file found under paths and merges them into
// one Manifest. Files are read in sorted path order and declarations keep
// their source order within each file.
func Load(ctx context.Context, paths ...string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s manifest files found in %v", Extension, paths)
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	m := &Manifest{}
	var styleSetIn string

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		if err := checkBlockBodies(&root); err != nil {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, err)
		}

		if root.MappingStyle != nil {
			if styleSetIn != "" && *root.MappingStyle != m.MappingStyle {
				return nil, fmt.Errorf("manifest %s sets mapping_style %q, conflicting with %q from %s",
					file, *root.MappingStyle, m.MappingStyle, styleSetIn)
			}
			m.MappingStyle = *root.MappingStyle
			styleSetIn = file
		}
		if root.TypeSafeValues != nil && *root.TypeSafeValues {
			m.TypeSafeValues = true
		}

		var decls []Declaration
		for _, e := range root.Entities {
			decls = append(decls, Declaration{
				Kind:       KindEntity,
				TypeName:   e.Name,
				IDProperty: e.IDProperty,
				Range:      blockRange(e.Remain),
			})
		}
		for _, vo := range root.ValueObjects {
			decls = append(decls, Declaration{
				Kind:     KindValueObject,
				TypeName: vo.Name,
				Range:    blockRange(vo.Remain),
			})
		}
		for _, v := range root.Values {
			decls = append(decls, Declaration{
				Kind:     KindValue,
				TypeName: v.Name,
				Codec:    v.Codec,
				Range:    blockRange(v.Remain),
			})
		}
		// gohcl groups blocks by type; later declarations replace earlier
		// ones, so restore source order.
		sort.SliceStable(decls, func(i, j int) bool {
			return decls[i].Range.Start.Byte < decls[j].Range.Start.Byte
		})
		m.Declarations = append(m.Declarations, decls...)
	}

	logger.Debug("Manifest loading complete.", "files", len(files), "declarations", len(m.Declarations))
	return m, nil
}

// checkBlockBodies rejects attributes and blocks that the schema does not
// know. Block bodies are decoded with a remain field so their source range
// is kept; anything left in them is unsupported.
func checkBlockBodies(root *fileRoot) error {
	var bodies []hcl.Body
	for _, e := range root.Entities {
		bodies = append(bodies, e.Remain)
	}
	for _, vo := range root.ValueObjects {
		bodies = append(bodies, vo.Remain)
	}
	for _, v := range root.Values {
		bodies = append(bodies, v.Remain)
	}

	for _, body := range bodies {
		if body == nil {
			continue
		}
		attrs, diags := body.JustAttributes()
		if diags.HasErrors() {
			return diags
		}
		if len(attrs) > 0 {
			names := make([]string, 0, len(attrs))
			for name := range attrs {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("%s: unsupported argument %q", attrs[names[0]].NameRange, names[0])
		}
	}
	return nil
}

func blockRange(body hcl.Body) hcl.Range {
	if body == nil {
		return hcl.Range{}
	}
	return body.MissingItemRange()
}
