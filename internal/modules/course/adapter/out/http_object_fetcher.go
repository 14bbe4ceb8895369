package out

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coursemenu/internal/modules/course/domain"
	courseout "coursemenu/internal/modules/course/port/out"
	apperrors "coursemenu/internal/platform/errors"
	"coursemenu/internal/platform/logger"
)

// BatchSize is the most ids the API accepts in one ids[] filter.
const BatchSize = 30

type HTTPFetcherConfig struct {
	BaseURL   string
	Timeout   time.Duration
	BatchSize int
}

type HTTPObjectFetcher struct {
	log  *logger.Logger
	cfg  HTTPFetcherConfig
	http *http.Client
}

func NewHTTPObjectFetcher(log *logger.Logger, cfg HTTPFetcherConfig) courseout.ObjectFetcher {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = BatchSize
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPObjectFetcher{
		log:  log.With("client", "HTTPObjectFetcher"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *HTTPObjectFetcher) FetchObject(ctx context.Context, cred domain.Credential, class domain.EntityClass, id int64) (json.RawMessage, error) {
	if err := class.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	u := f.cfg.BaseURL + "/api/" + class.CollectionKey() + "/" + strconv.FormatInt(id, 10)
	objs, _, err := f.get(ctx, cred, class, []int64{id}, u)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, &apperrors.FetchError{Class: string(class), IDs: []int64{id}, Err: apperrors.ErrNotFound}
	}
	return objs[0], nil
}

func (f *HTTPObjectFetcher) FetchObjects(ctx context.Context, cred domain.Credential, class domain.EntityClass, ids []int64) ([]json.RawMessage, error) {
	if err := class.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	out := make([]json.RawMessage, 0, len(ids))
	for start := 0; start < len(ids); start += f.cfg.BatchSize {
		end := min(start+f.cfg.BatchSize, len(ids))
		chunk := ids[start:end]
		q := url.Values{}
		for _, id := range chunk {
			q.Add("ids[]", strconv.FormatInt(id, 10))
		}
		u := f.cfg.BaseURL + "/api/" + class.CollectionKey() + "?" + q.Encode()
		objs, _, err := f.get(ctx, cred, class, chunk, u)
		if err != nil {
			return nil, err
		}
		f.log.Debug("batch fetched", "class", string(class), "requested", len(chunk), "received", len(objs))
		out = append(out, objs...)
	}
	return out, nil
}

func (f *HTTPObjectFetcher) ListCourses(ctx context.Context, cred domain.Credential, page int) ([]json.RawMessage, bool, error) {
	q := url.Values{}
	q.Set("is_public", "false")
	q.Set("page", strconv.Itoa(page))
	u := f.cfg.BaseURL + "/api/" + domain.ClassCourse.CollectionKey() + "?" + q.Encode()
	objs, meta, err := f.get(ctx, cred, domain.ClassCourse, nil, u)
	if err != nil {
		return nil, false, err
	}
	return objs, meta.HasNext, nil
}

type pageMeta struct {
	Page    int  `json:"page"`
	HasNext bool `json:"has_next"`
}

func (f *HTTPObjectFetcher) get(ctx context.Context, cred domain.Credential, class domain.EntityClass, ids []int64, u string) ([]json.RawMessage, pageMeta, error) {
	fail := func(status int, err error) ([]json.RawMessage, pageMeta, error) {
		return nil, pageMeta{}, &apperrors.FetchError{Class: string(class), IDs: ids, Status: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode == http.StatusNotFound {
		return fail(resp.StatusCode, apperrors.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", snippet(raw)))
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode envelope: %w", err))
	}
	var meta pageMeta
	if m, ok := envelope["meta"]; ok {
		if err := json.Unmarshal(m, &meta); err != nil {
			return fail(resp.StatusCode, fmt.Errorf("decode meta: %w", err))
		}
	}
	list, ok := envelope[class.CollectionKey()]
	if !ok {
		return fail(resp.StatusCode, fmt.Errorf("response has no %q key", class.CollectionKey()))
	}
	var objs []json.RawMessage
	if err := json.Unmarshal(list, &objs); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode %s: %w", class.CollectionKey(), err))
	}
	return objs, meta, nil
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
