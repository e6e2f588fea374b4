package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// 統計サービスが受け付ける日時書式
const timeLayout = "2006-01-02 15:04:05"

// 集計開始日時。イベントの閲覧数は全期間で数える
var statsEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ViewStats は統計サービスの応答要素
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Client は閲覧数統計サービスのHTTPクライアント
type Client struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewClient は統計サービスクライアントを作成する
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

// ViewCount はイベントのユニーク閲覧数を返す
func (c *Client) ViewCount(ctx context.Context, eventID int64) (int64, error) {
	counts, err := c.ViewCounts(ctx, []int64{eventID})
	if err != nil {
		return 0, err
	}
	return counts[eventID], nil
}

// ViewCounts は複数イベントのユニーク閲覧数を返す。統計のないイベントは0
func (c *Client) ViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	q := url.Values{}
	q.Set("start", statsEpoch.Format(timeLayout))
	q.Set("end", c.now().UTC().Add(time.Minute).Format(timeLayout))
	q.Set("unique", "true")
	for _, id := range eventIDs {
		counts[id] = 0
		q.Add("uris", EventURI(id))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("統計リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("統計サービス呼び出しに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("統計サービスがエラーを返しました: %s", resp.Status)
	}

	var stats []ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("統計レスポンスの解析に失敗: %w", err)
	}
	for _, s := range stats {
		id, ok := parseEventURI(s.URI)
		if !ok {
			continue
		}
		if _, requested := counts[id]; requested {
			counts[id] += s.Hits
		}
	}
	return counts, nil
}

// EventURI は統計サービスでイベント閲覧を識別するURI
func EventURI(eventID int64) string {
	return "/events/" + strconv.FormatInt(eventID, 10)
}

func parseEventURI(uri string) (int64, bool) {
	rest, ok := strings.CutPrefix(uri, "/events/")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
