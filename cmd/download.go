package cmd

import (
	"fmt"
	"log"
	"os"
	"ranobelib-downloader/config"
	"ranobelib-downloader/epub"
	"ranobelib-downloader/model"
	"ranobelib-downloader/text"
	"ranobelib-downloader/utils"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type downloadArgs struct {
	Href      string
	Chapters  string
	Output    string
	Format    string
	TextOnly  bool
	Ascending bool
}

var dArgs downloadArgs

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download chapters of a work",
	Long:  "Download chapters of a work and pack them as an epub book or as plain text files",
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&dArgs.Href, "href", "", "work href; picked from bookmarks when empty")
	downloadCmd.Flags().StringVar(&dArgs.Chapters, "chapters", "", "chapter positions, e.g. 1-10 or 1,3,5; all when empty")
	downloadCmd.Flags().StringVarP(&dArgs.Output, "output-path", "o", "", "output path")
	downloadCmd.Flags().StringVarP(&dArgs.Format, "format", "f", "", "epub or text")
	downloadCmd.Flags().BoolVar(&dArgs.TextOnly, "text-only", false, "skip cover and inline images")
	downloadCmd.Flags().BoolVar(&dArgs.Ascending, "ascending", true, "order chapters from first to last before selecting")
	RootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.Options{
		Output:   dArgs.Output,
		Format:   dArgs.Format,
		TextOnly: dArgs.TextOnly,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	work, err := a.resolveWork(ctx, dArgs.Href)
	if err != nil {
		return err
	}
	all, err := a.service.ListChapters(ctx, work.Href)
	if err != nil {
		return err
	}
	// the site lists the newest chapter first
	if dArgs.Ascending {
		all = slices.Clone(all)
		slices.Reverse(all)
	}
	selected, err := selectChapters(all, dArgs.Chapters)
	if err != nil {
		return err
	}
	hrefs := chapterHrefs(selected)
	if len(hrefs) == 0 {
		return fmt.Errorf("no chapters selected")
	}

	chapterRange := utils.ChapterRangeOf(hrefs)
	fmt.Printf("Downloading %d chapters of %s (chapters %s-%s)\n", len(hrefs), work.Title, chapterRange.Start, chapterRange.End)

	progress := mpb.NewWithContext(ctx,
		mpb.WithWidth(52),
		mpb.WithOutput(os.Stdout),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	bar := progress.New(int64(len(hrefs)),
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(decor.Name(utils.CleanDirName(work.Title)+"  ")),
		mpb.AppendDecorators(
			decor.CountersNoUnit("%d/%d chapters", decor.WCSyncWidth),
			decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
		),
	)
	batch, err := a.service.FetchContentReport(ctx, hrefs, func(href string, err error) {
		bar.Increment()
	})
	if err != nil {
		bar.Abort(false)
		progress.Wait()
		return err
	}
	bar.SetTotal(-1, true)
	progress.Wait()

	if !batch.Complete() {
		log.Printf("%d chapters failed:", len(batch.Failed))
		for _, href := range batch.Failed {
			log.Printf("  %s", href)
		}
	}
	if len(batch.Items) == 0 {
		return fmt.Errorf("no chapter could be downloaded")
	}

	if err := os.MkdirAll(a.cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}
	out, err := pack(a, work, batch.Items)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d chapters to %s\n", len(batch.Items), out)
	return nil
}

func pack(a *app, work model.Work, contents []model.ReaderContent) (string, error) {
	if a.cfg.Format == "text" {
		return text.PackWorkToText(work, contents, a.cfg.Output)
	}
	var client *utils.RestyClient
	if !a.cfg.TextOnly {
		client = utils.NewRestyClient(a.cfg.UserAgent)
	}
	packer := epub.NewPacker(client, a.service.BaseURL(), a.cfg.TextOnly)
	ctx, cancel := signalContext()
	defer cancel()
	return packer.Pack(ctx, work, contents, a.cfg.Output)
}
