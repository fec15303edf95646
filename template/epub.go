package template

import (
	"context"
	"fmt"
	"io"
	"ranobelib-downloader/model"

	"github.com/a-h/templ"
)

const xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// ContentXHTML wraps already well-formed XHTML markup into a chapter page.
func ContentXHTML(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, xmlHeader+`<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
<title>%s</title>
<link href="../../style.css" rel="stylesheet" type="text/css"/>
</head>
<body>
<div>
<h1>%s</h1>
%s
</div>
</body>
</html>
`, templ.EscapeString(title), templ.EscapeString(title), body)
		return err
	})
}

func CoverXHTML(coverPath string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, xmlHeader+`<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
<title>Cover</title>
<style type="text/css">body { margin: 0; padding: 0; text-align: center; } img { max-width: 100%%; max-height: 100%%; }</style>
</head>
<body>
<div><img alt="cover" src="%s"/></div>
</body>
</html>
`, templ.EscapeString(coverPath))
		return err
	})
}

func ContainerXML() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, xmlHeader+`<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
<rootfiles>
<rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
</rootfiles>
</container>
`)
		return err
	})
}

func ContentOPF(uniqueIdentifier string, dc *model.DublinCoreMetadata, manifest *model.Manifest, spine *model.Spine) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		metadata, err := dc.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		items, err := manifest.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal manifest: %w", err)
		}
		refs, err := spine.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal spine: %w", err)
		}
		// dc elements only resolve once the namespace is declared on <metadata>
		metadata = "<metadata xmlns:dc=\"http://purl.org/dc/elements/1.1/\" xmlns:opf=\"http://www.idpf.org/2007/opf\"" + metadata[len("<metadata"):]

		_, err = fmt.Fprintf(w, xmlHeader+`<package version="3.0" unique-identifier="%s" xmlns="http://www.idpf.org/2007/opf">
%s
%s
%s
</package>
`, templ.EscapeString(uniqueIdentifier), metadata, items, refs)
		return err
	})
}

func TocNCX(title string, head *model.TocNCXHead, navMap *model.NavMap) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		headXML, err := head.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal ncx head: %w", err)
		}
		navXML, err := navMap.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal nav map: %w", err)
		}
		_, err = fmt.Fprintf(w, xmlHeader+`<ncx version="2005-1" xmlns="http://www.daisy.org/z3986/2005/ncx/">
%s
<docTitle><text>%s</text></docTitle>
%s
</ncx>
`, headXML, templ.EscapeString(title), navXML)
		return err
	})
}
