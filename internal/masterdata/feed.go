package masterdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-wms/meridian/internal/notify"
	"github.com/meridian-wms/meridian/internal/platform/cache"
	"github.com/meridian-wms/meridian/internal/store"
)

// FeedErrorKind tells apart the failure modes of the supplier feed.
type FeedErrorKind string

const (
	// FeedNoResponse means the request never produced an HTTP response.
	FeedNoResponse FeedErrorKind = "no_response"
	// FeedServerError means the endpoint answered with a non-2xx status.
	FeedServerError FeedErrorKind = "server_error"
	// FeedBadPayload means the body was not a JSON supplier array.
	FeedBadPayload FeedErrorKind = "bad_payload"
)

// FeedError reports a failed feed refresh. The supplier store is left
// untouched on any feed error.
type FeedError struct {
	Kind FeedErrorKind
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("masterdata: supplier feed %s: %v", e.Kind, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// Feed pulls the external supplier directory. Refreshes replace the supplier
// store wholesale on success; concurrent refreshes are collapsed into one
// request.
type Feed struct {
	url      string
	client   *http.Client
	store    *store.Store[Supplier]
	snapshot *cache.Snapshot
	notifier notify.Service
	logger   *slog.Logger
	group    singleflight.Group
}

// NewFeed constructs the feed refresher. snapshot may be nil to disable
// caching.
func NewFeed(url string, timeout time.Duration, st *store.Store[Supplier], snapshot *cache.Snapshot, notifier notify.Service, logger *slog.Logger) *Feed {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		store:    st,
		snapshot: snapshot,
		notifier: notifier,
		logger:   logger,
	}
}

// Refresh fetches the directory and adopts it into the supplier store.
// Concurrent callers share a single fetch.
func (f *Feed) Refresh(ctx context.Context) ([]Supplier, error) {
	result, err, _ := f.group.Do("supplier-feed", func() (any, error) {
		return f.fetch(ctx)
	})
	if err != nil {
		f.notifier.Notify(ctx, notify.SeverityError, feedMessage(err))
		return nil, err
	}
	suppliers := result.([]Supplier)
	if err := f.store.ReplaceAll(suppliers); err != nil {
		wrapped := &FeedError{Kind: FeedBadPayload, Err: err}
		f.notifier.Notify(ctx, notify.SeverityError, feedMessage(wrapped))
		return nil, wrapped
	}
	if err := f.snapshot.Save(ctx, suppliers); err != nil {
		f.logger.Warn("save supplier snapshot", slog.Any("error", err))
	}
	f.notifier.Notify(ctx, notify.SeveritySuccess, "Đã tải danh sách nhà cung cấp!")
	return suppliers, nil
}

// Warm seeds the supplier store from the last cached snapshot. A cache miss
// is not an error.
func (f *Feed) Warm(ctx context.Context) error {
	var suppliers []Supplier
	err := f.snapshot.Load(ctx, &suppliers)
	if errors.Is(err, cache.ErrMiss) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := f.store.ReplaceAll(suppliers); err != nil {
		return err
	}
	f.logger.Info("supplier store warmed from snapshot", slog.Int("count", len(suppliers)))
	return nil
}

func (f *Feed) fetch(ctx context.Context) ([]Supplier, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FeedError{Kind: FeedNoResponse, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FeedError{Kind: FeedNoResponse, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FeedError{Kind: FeedServerError, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var suppliers []Supplier
	if err := json.NewDecoder(resp.Body).Decode(&suppliers); err != nil {
		return nil, &FeedError{Kind: FeedBadPayload, Err: err}
	}
	for i := range suppliers {
		if suppliers[i].ID == "" {
			suppliers[i].ID = fmt.Sprintf("feed-%d", i+1)
		}
		if suppliers[i].Status == "" {
			suppliers[i].Status = StatusActive
		}
	}
	return suppliers, nil
}

func feedMessage(err error) string {
	var feedErr *FeedError
	if errors.As(err, &feedErr) && feedErr.Kind == FeedNoResponse {
		return "Không nhận được phản hồi từ máy chủ. Vui lòng thử lại!"
	}
	return "Máy chủ trả về lỗi khi tải nhà cung cấp. Vui lòng thử lại!"
}
