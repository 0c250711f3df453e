package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cailot/cool-runnings/internal/model"
)

// HTTPFetcher fetches draw results from a JSON results endpoint.
type HTTPFetcher struct {
	ResultsURL string
	Client     *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support.
func NewHTTPFetcher(resultsURL, proxyURL string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		ResultsURL: resultsURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// drawsResponse is the expected JSON shape from the results endpoint.
type drawsResponse struct {
	Draws []drawPayload `json:"draws"`
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type drawPayload struct {
	Draw    int    `json:"draw"`
	Date    string `json:"date"`
	Winning []int  `json:"winning"`
	Bonus   []int  `json:"bonus"`
}

func (f *HTTPFetcher) FetchLatest(count int) ([]model.Draw, error) {
	endpoint := fmt.Sprintf("%s?limit=%d", f.ResultsURL, count)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("results fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("results read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload drawsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("results decode: %w", err)
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("results api error: %s", payload.Error.Description)
	}
	if len(payload.Draws) == 0 {
		return nil, fmt.Errorf("results: no draws returned")
	}

	draws := make([]model.Draw, 0, len(payload.Draws))
	for _, p := range payload.Draws {
		d, err := p.toDraw()
		if err != nil {
			return nil, fmt.Errorf("results draw %d: %w", p.Draw, err)
		}
		draws = append(draws, d)
	}

	sort.Slice(draws, func(i, j int) bool { return draws[i].Index > draws[j].Index })
	if len(draws) > count {
		draws = draws[:count]
	}
	return draws, nil
}

func (p drawPayload) toDraw() (model.Draw, error) {
	var d model.Draw
	if len(p.Winning) != model.WinningCount {
		return d, fmt.Errorf("expected %d winning numbers, got %d", model.WinningCount, len(p.Winning))
	}
	if len(p.Bonus) != model.BonusCount {
		return d, fmt.Errorf("expected %d bonus numbers, got %d", model.BonusCount, len(p.Bonus))
	}

	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return d, fmt.Errorf("date %q: %w", p.Date, err)
	}

	d.Index = p.Draw
	d.Date = date
	for i, n := range p.Winning {
		if !model.ValidNumber(n) {
			return d, fmt.Errorf("winning number %d out of range", n)
		}
		d.Winning[i] = n
	}
	for i, n := range p.Bonus {
		if !model.ValidNumber(n) {
			return d, fmt.Errorf("bonus number %d out of range", n)
		}
		d.Bonus[i] = n
	}
	return d, nil
}
