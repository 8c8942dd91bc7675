package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/efojunior25/Notrya-Catalogo/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const msgFetchFailed = "failed to fetch products"

// Fetcher is the part of Client the browser needs.
type Fetcher interface {
	FetchPage(ctx context.Context, q Query) (domain.ProductPage, error)
}

// View is what the product grid renders.
type View struct {
	SearchTerm string           `json:"search_term"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Products   []domain.Product `json:"products"`
	TotalPages int              `json:"total_pages"`
	Total      int64            `json:"total_elements"`
	IsLoading  bool             `json:"is_loading"`
	Error      string           `json:"error,omitempty"`
}

// Browser holds the live-search state of a session. Search terms are
// debounced; page changes fetch immediately. Only the response to the most
// recently issued request is ever applied.
type Browser struct {
	fetcher      Fetcher
	debouncer    *Debouncer
	fetchTimeout time.Duration

	mu     sync.Mutex
	view   View
	issued uint64
}

func NewBrowser(fetcher Fetcher, debouncer *Debouncer, pageSize int, fetchTimeout time.Duration) *Browser {
	return &Browser{
		fetcher:      fetcher,
		debouncer:    debouncer,
		fetchTimeout: fetchTimeout,
		view: View{
			PageSize: pageSize,
			Products: []domain.Product{},
		},
	}
}

// View returns a copy of the current view.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// SetSearchTerm records term, moves back to the first page and schedules a
// fetch. Rapid calls collapse into one fetch for the last term.
func (b *Browser) SetSearchTerm(term string) View {
	b.mu.Lock()
	b.view.SearchTerm = term
	b.view.Page = 0
	v := b.snapshotLocked()
	b.mu.Unlock()

	b.debouncer.Schedule(func() {
		ctx := context.Background()
		if b.fetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, b.fetchTimeout)
			defer cancel()
		}
		b.fetch(ctx)
	})
	return v
}

// SetPage switches page and fetches it right away.
func (b *Browser) SetPage(ctx context.Context, page int) View {
	if page < 0 {
		page = 0
	}
	b.mu.Lock()
	b.view.Page = page
	b.mu.Unlock()

	return b.fetch(ctx)
}

// Refresh refetches the current term and page.
func (b *Browser) Refresh(ctx context.Context) View {
	return b.fetch(ctx)
}

func (b *Browser) fetch(ctx context.Context) View {
	b.mu.Lock()
	b.issued++
	seq := b.issued
	q := Query{Search: b.view.SearchTerm, Page: b.view.Page, Size: b.view.PageSize}
	b.view.IsLoading = true
	b.view.Error = ""
	b.mu.Unlock()

	page, err := b.fetcher.FetchPage(ctx, q)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.issued {
		metrics.StaleResponses.Inc()
		log.WithFields(log.Fields{
			"seq":    seq,
			"latest": b.issued,
			"search": q.Search,
			"page":   q.Page,
		}).Debug("discarding stale catalog response")
		return b.snapshotLocked()
	}

	b.view.IsLoading = false
	if err != nil {
		log.WithError(err).WithField("search", q.Search).Warn("catalog fetch failed")
		b.view.Error = err.Error()
		if b.view.Error == "" {
			b.view.Error = msgFetchFailed
		}
		return b.snapshotLocked()
	}
	b.view.Products = page.Content
	b.view.TotalPages = page.TotalPages
	b.view.Total = page.TotalElements
	return b.snapshotLocked()
}

func (b *Browser) snapshotLocked() View {
	v := b.view
	v.Products = append([]domain.Product{}, b.view.Products...)
	return v
}
