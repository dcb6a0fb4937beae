// Package webapi holds the HTTP collaborators: OpenWeatherMap, NewsAPI and
// the Wikipedia REST summary endpoint. Each call returns ready-to-speak text
// or a typed failure the dispatcher maps to its fixed apology utterance.
package webapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/net/proxy"
)

var (
	ErrNoAPIKey  = errors.New("api key not set")
	ErrNotFound  = errors.New("no result")
	ErrAmbiguous = errors.New("ambiguous topic")
)

const (
	defaultWeatherURL = "http://api.openweathermap.org/data/2.5/weather"
	defaultNewsURL    = "https://newsapi.org/v2/top-headlines"
	defaultWikiURL    = "https://en.wikipedia.org/api/rest_v1/page/summary"
)

type Options struct {
	WeatherKey string
	NewsKey    string
	// SocksProxy, when set, routes all requests through a SOCKS5 proxy.
	SocksProxy string
	Timeout    time.Duration

	// Endpoint overrides, used by tests.
	WeatherURL string
	NewsURL    string
	WikiURL    string
}

type Client struct {
	http       *http.Client
	weatherKey string
	newsKey    string
	weatherURL string
	newsURL    string
	wikiURL    string
}

// SocksHTTPClient builds an http.Client routed through a SOCKS5 proxy. Also
// used by main for the cloud transcription client.
func SocksHTTPClient(addr string, timeout time.Duration) (*http.Client, error) {
	dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks proxy %s: %w", addr, err)
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				return dialer.Dial(network, address)
			},
		},
	}, nil
}

func New(opt Options) (*Client, error) {
	if opt.Timeout <= 0 {
		opt.Timeout = 15 * time.Second
	}
	hc := &http.Client{Timeout: opt.Timeout}
	if opt.SocksProxy != "" {
		var err error
		hc, err = SocksHTTPClient(opt.SocksProxy, opt.Timeout)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		http:       hc,
		weatherKey: opt.WeatherKey,
		newsKey:    opt.NewsKey,
		weatherURL: opt.WeatherURL,
		newsURL:    opt.NewsURL,
		wikiURL:    opt.WikiURL,
	}
	if c.weatherURL == "" {
		c.weatherURL = defaultWeatherURL
	}
	if c.newsURL == "" {
		c.newsURL = defaultNewsURL
	}
	if c.wikiURL == "" {
		c.wikiURL = defaultWikiURL
	}
	return c, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// Weather fetches current conditions for city and phrases the report. The
// humidity remark is only added when it is notable.
func (c *Client) Weather(ctx context.Context, city string) (string, error) {
	if c.weatherKey == "" {
		return "", ErrNoAPIKey
	}

	u := fmt.Sprintf("%s?q=%s&appid=%s&units=metric", c.weatherURL, url.QueryEscape(city), c.weatherKey)
	body, status, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	if status == http.StatusNotFound {
		return "", ErrNotFound
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("weather api status %d", status)
	}

	tempC := gjson.GetBytes(body, "main.temp").Float()
	tempF := tempC*9/5 + 32
	desc := gjson.GetBytes(body, "weather.0.description").String()
	humidity := gjson.GetBytes(body, "main.humidity").Int()

	report := fmt.Sprintf("In %s, it's %.1f°C (%.1f°F) with %s.", city, tempC, tempF, desc)
	if humidity > 70 {
		report += fmt.Sprintf(" The humidity is high at %d%%.", humidity)
	} else if humidity < 30 {
		report += fmt.Sprintf(" The humidity is low at %d%%.", humidity)
	}
	return report, nil
}

// Headlines fetches up to n top headlines.
func (c *Client) Headlines(ctx context.Context, n int) ([]string, error) {
	if c.newsKey == "" {
		return nil, ErrNoAPIKey
	}

	u := fmt.Sprintf("%s?country=us&apiKey=%s", c.newsURL, c.newsKey)
	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("news api status %d", status)
	}
	if gjson.GetBytes(body, "totalResults").Int() <= 0 {
		return nil, nil
	}

	var titles []string
	for _, t := range gjson.GetBytes(body, "articles.#.title").Array() {
		if len(titles) == n {
			break
		}
		titles = append(titles, t.String())
	}
	return titles, nil
}

// Summary fetches a short encyclopedia summary for topic, trimmed to two
// sentences. Disambiguation pages come back as ErrAmbiguous so the caller
// can ask for something more specific.
func (c *Client) Summary(ctx context.Context, topic string) (string, error) {
	if topic == "" {
		return "", ErrNotFound
	}

	u := c.wikiURL + "/" + url.PathEscape(topic)
	body, status, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("lookup request: %w", err)
	}
	if status == http.StatusNotFound {
		return "", ErrNotFound
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("lookup api status %d", status)
	}

	if gjson.GetBytes(body, "type").String() == "disambiguation" {
		return "", ErrAmbiguous
	}
	extract := gjson.GetBytes(body, "extract").String()
	if extract == "" {
		return "", ErrNotFound
	}
	return firstSentences(extract, 2), nil
}

func firstSentences(text string, n int) string {
	parts := strings.SplitAfterN(text, ". ", n+1)
	if len(parts) <= n {
		return text
	}
	return strings.TrimSpace(strings.Join(parts[:n], ""))
}
