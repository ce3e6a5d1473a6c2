package fetcher

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is a remote layer and the local path it is stored at.
type Source struct {
	Name string
	URL  string
	Path string
}

// Result reports one downloaded layer.
type Result struct {
	Source
	Bytes int64
}

// FetchAll downloads every source with a URL concurrently. Results keep
// the order of sources; sources without a URL are skipped.
func FetchAll(ctx context.Context, f *Fetcher, sources []Source) ([]Result, error) {
	var todo []Source
	for _, s := range sources {
		if s.URL != "" {
			todo = append(todo, s)
		}
	}
	if len(todo) == 0 {
		return nil, eris.New("fetcher: no layer URLs configured")
	}

	results := make([]Result, len(todo))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range todo {
		g.Go(func() error {
			n, err := f.DownloadToFile(gctx, s.URL, s.Path)
			if err != nil {
				return eris.Wrapf(err, "fetcher: layer %s", s.Name)
			}
			results[i] = Result{Source: s, Bytes: n}
			zap.L().Info("layer downloaded",
				zap.String("component", "fetcher"),
				zap.String("layer", s.Name),
				zap.String("path", s.Path),
				zap.Int64("bytes", n),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
