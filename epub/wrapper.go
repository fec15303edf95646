package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"ranobelib-downloader/model"
	"ranobelib-downloader/template"
	"ranobelib-downloader/utils"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/google/uuid"
)

// Packer turns fetched chapters of a work into an EPUB book.
type Packer struct {
	Client   *utils.RestyClient
	BaseURL  string
	TextOnly bool
	Language string
}

func NewPacker(client *utils.RestyClient, baseURL string, textOnly bool) *Packer {
	return &Packer{Client: client, BaseURL: baseURL, TextOnly: textOnly, Language: "ru"}
}

type chapterFile struct {
	id     string
	link   string
	title  string
	images []model.ManifestItem
}

// Pack writes <outputPath>/<title>.epub and returns its path. The unpacked
// directory is kept next to it.
func (p *Packer) Pack(ctx context.Context, work model.Work, contents []model.ReaderContent, outputPath string) (string, error) {
	if len(contents) == 0 {
		return "", fmt.Errorf("nothing to pack for %v", work.Title)
	}
	bookPath := filepath.Join(outputPath, utils.CleanDirName(work.Title))
	if err := resetDir(bookPath); err != nil {
		return "", err
	}

	chapters := make([]chapterFile, 0, len(contents))
	for i, content := range contents {
		chapter, err := p.writeChapter(ctx, bookPath, i, content)
		if err != nil {
			return "", err
		}
		chapters = append(chapters, chapter)
	}

	var cover *model.ManifestItem
	if work.Cover != "" && !p.TextOnly {
		item, err := p.writeCover(ctx, bookPath, work.Cover)
		if err != nil {
			log.Printf("failed to download cover of %v: %v", work.Title, err)
		} else {
			cover = item
		}
	}

	toc := strings.Builder{}
	toc.WriteString(`<nav epub:type="toc" id="toc"><ol>`)
	for _, chapter := range chapters {
		toc.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a></li>`, path.Base(chapter.link), templ.EscapeString(chapter.title)))
	}
	toc.WriteString(`</ol></nav>`)
	if err := renderFile(filepath.Join(bookPath, "OEBPS/Text/contents.xhtml"), template.ContentXHTML("Contents", toc.String())); err != nil {
		return "", err
	}

	if err := renderFile(filepath.Join(bookPath, "META-INF/container.xml"), template.ContainerXML()); err != nil {
		return "", err
	}

	id := uuid.New().String()
	if err := p.writeTocNCX(bookPath, id, work, chapters); err != nil {
		return "", err
	}
	if err := p.writeContentOPF(bookPath, id, work, chapters, cover); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(bookPath, "style.css"), []byte(template.StyleCSS), 0644); err != nil {
		return "", fmt.Errorf("failed to write CSS: %w", err)
	}

	if err := PackEpub(bookPath); err != nil {
		return "", fmt.Errorf("failed to pack epub: %w", err)
	}
	return bookPath + ".epub", nil
}

func (p *Packer) writeChapter(ctx context.Context, bookPath string, i int, content model.ReaderContent) (chapterFile, error) {
	chapter := chapterFile{
		id:    fmt.Sprintf("chapter-%03d.xhtml", i),
		link:  fmt.Sprintf("OEBPS/Text/chapter-%03d.xhtml", i),
		title: content.Title,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.TextContent))
	if err != nil {
		return chapter, fmt.Errorf("failed to parse chapter %v: %w", content.Href, err)
	}
	doc.Find("script, style, iframe").Remove()

	imgs := doc.Find("img")
	if p.TextOnly {
		imgs.Remove()
	} else {
		imgs.Each(func(j int, img *goquery.Selection) {
			src, ok := img.Attr("data-src")
			if !ok || src == "" {
				src, _ = img.Attr("src")
			}
			if src == "" {
				img.Remove()
				return
			}
			data, err := p.download(ctx, src)
			if err != nil {
				log.Printf("failed to download image %v: %v", src, err)
				img.Remove()
				return
			}
			ext := imageExt(src)
			name := fmt.Sprintf("img-%03d%s", j, ext)
			link := fmt.Sprintf("OEBPS/Images/chapter-%03d/%s", i, name)
			if err := writeFile(filepath.Join(bookPath, link), data); err != nil {
				log.Printf("failed to write image %v: %v", link, err)
				img.Remove()
				return
			}
			img.RemoveAttr("data-src")
			img.SetAttr("src", fmt.Sprintf("../Images/chapter-%03d/%s", i, name))
			if _, ok := img.Attr("alt"); !ok {
				img.SetAttr("alt", "")
			}
			chapter.images = append(chapter.images, model.ManifestItem{
				ID:    fmt.Sprintf("chapter-%03d-%s", i, name),
				Link:  link,
				Media: mediaType(ext),
			})
		})
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return chapter, fmt.Errorf("failed to render chapter %v: %w", content.Href, err)
	}
	if err := renderFile(filepath.Join(bookPath, chapter.link), template.ContentXHTML(content.Title, body)); err != nil {
		return chapter, err
	}
	return chapter, nil
}

func (p *Packer) writeCover(ctx context.Context, bookPath, src string) (*model.ManifestItem, error) {
	data, err := p.download(ctx, src)
	if err != nil {
		return nil, err
	}
	ext := imageExt(src)
	name := "cover" + ext
	if err := writeFile(filepath.Join(bookPath, name), data); err != nil {
		return nil, err
	}
	if err := renderFile(filepath.Join(bookPath, "OEBPS/Text/cover.xhtml"), template.CoverXHTML("../../"+name)); err != nil {
		return nil, err
	}
	return &model.ManifestItem{
		ID:         "cover",
		Link:       name,
		Media:      mediaType(ext),
		Properties: "cover-image",
	}, nil
}

func (p *Packer) writeTocNCX(bookPath, id string, work model.Work, chapters []chapterFile) error {
	head := &model.TocNCXHead{
		Meta: []model.TocNCXHeadMeta{
			{Name: "dtb:uid", Content: "urn:uuid:" + id},
			{Name: "dtb:depth", Content: "1"},
		},
	}
	navMap := &model.NavMap{Points: make([]*model.NavPoint, 0, len(chapters))}
	for i, chapter := range chapters {
		navMap.Points = append(navMap.Points, &model.NavPoint{
			Id:        fmt.Sprintf("navPoint-%d", i+1),
			PlayOrder: i + 1,
			Label:     chapter.title,
			Content:   model.NavPointContent{Src: chapter.link},
		})
	}
	return renderFile(filepath.Join(bookPath, "toc.ncx"), template.TocNCX(work.Title, head, navMap))
}

func (p *Packer) writeContentOPF(bookPath, id string, work model.Work, chapters []chapterFile, cover *model.ManifestItem) error {
	dc := &model.DublinCoreMetadata{
		Titles:      []model.DCTitle{{Value: work.Title}},
		Identifiers: []model.DCIdentifier{{Value: "urn:uuid:" + id, ID: "book-id"}},
		Languages:   []model.DCLanguage{{Value: p.Language}},
		Metas: []model.DublinCoreMeta{
			{Property: "dcterms:modified", Value: time.Now().UTC().Format("2006-01-02T15:04:05Z")},
		},
	}
	if work.Href != "" {
		dc.Sources = []model.DCSource{{Value: p.BaseURL + "/" + strings.TrimPrefix(work.Href, "/")}}
	}

	manifest := &model.Manifest{Items: make([]model.ManifestItem, 0)}
	if cover != nil {
		dc.Metas = append(dc.Metas, model.DublinCoreMeta{Name: "cover", Content: cover.ID})
		manifest.Items = append(manifest.Items, model.ManifestItem{
			ID:    "cover.xhtml",
			Link:  "OEBPS/Text/cover.xhtml",
			Media: "application/xhtml+xml",
		}, *cover)
	}
	manifest.Items = append(manifest.Items,
		model.ManifestItem{ID: "contents.xhtml", Link: "OEBPS/Text/contents.xhtml", Media: "application/xhtml+xml", Properties: "nav"},
		model.ManifestItem{ID: "ncx", Link: "toc.ncx", Media: "application/x-dtbncx+xml"},
	)
	for _, chapter := range chapters {
		manifest.Items = append(manifest.Items, model.ManifestItem{
			ID:    chapter.id,
			Link:  chapter.link,
			Media: "application/xhtml+xml",
		})
		manifest.Items = append(manifest.Items, chapter.images...)
	}
	manifest.Items = append(manifest.Items, model.ManifestItem{ID: "style", Link: "style.css", Media: "text/css"})

	spine := &model.Spine{Toc: "ncx", Items: make([]model.SpineItem, 0)}
	for _, item := range manifest.Items {
		if filepath.Ext(item.Link) == ".xhtml" {
			spine.Items = append(spine.Items, model.SpineItem{IDref: item.ID})
		}
	}
	return renderFile(filepath.Join(bookPath, "content.opf"), template.ContentOPF("book-id", dc, manifest, spine))
}

func (p *Packer) download(ctx context.Context, src string) ([]byte, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("no http client")
	}
	target, err := p.resolve(src)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %v", resp.Status())
	}
	return resp.Body(), nil
}

func (p *Packer) resolve(src string) (string, error) {
	ref, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(p.BaseURL + "/")
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func imageExt(src string) string {
	u, err := url.Parse(src)
	if err == nil {
		src = u.Path
	}
	ext := strings.ToLower(path.Ext(src))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg":
		return ext
	}
	return ".jpg"
}

func mediaType(ext string) string {
	switch ext {
	case ".svg":
		return "image/svg+xml"
	case ".jpg":
		return "image/jpeg"
	}
	return "image/" + strings.TrimPrefix(ext, ".")
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func writeFile(filePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(filePath, data, 0644)
}

func renderFile(filePath string, component templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create %v: %w", filepath.Base(filePath), err)
	}
	defer file.Close()
	if err := component.Render(context.Background(), file); err != nil {
		return fmt.Errorf("failed to render %v: %w", filepath.Base(filePath), err)
	}
	return nil
}

// PackEpub zips dirPath into dirPath.epub with the mimetype entry stored
// first and uncompressed.
func PackEpub(dirPath string) error {
	savePath := strings.TrimSuffix(dirPath, string(filepath.Separator)) + ".epub"
	zipFile, err := os.Create(savePath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	err = addStringToZip(zipWriter, "mimetype", "application/epub+zip", zip.Store)
	if err != nil {
		return err
	}

	return addDirContentToZip(zipWriter, dirPath, zip.Deflate)
}

func addStringToZip(zipWriter *zip.Writer, relPath, content string, method uint16) error {
	header := &zip.FileHeader{
		Name:   relPath,
		Method: method,
	}
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = writer.Write([]byte(content))
	return err
}

func addDirContentToZip(zipWriter *zip.Writer, dirPath string, method uint16) error {
	return filepath.Walk(dirPath, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dirPath, filePath)
		if err != nil {
			return err
		}

		file, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer file.Close()

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = method

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		_, err = io.Copy(writer, file)
		return err
	})
}
