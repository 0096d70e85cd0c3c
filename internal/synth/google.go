// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/pdfspeech/pkg/types"
)

// googleTTSBase is the Google Translate speech endpoint. Declared as a
// var so tests can substitute an httptest server.
var googleTTSBase = "https://translate.google.com/translate_tts"

// googleMaxSegmentLen is the longest text the translate_tts endpoint
// accepts in one request.
const googleMaxSegmentLen = 100

// defaultTimeout bounds one synthesis request when no timeout is
// configured.
const defaultTimeout = 30 * time.Second

const defaultUserAgent = "pdfspeech/0.1"

// Google synthesizes speech through the public Google Translate TTS
// endpoint. The endpoint is keyless, serves MP3, and rate-limits
// aggressively; rate-limit responses surface as quota failures.
type Google struct {
	Client    *http.Client
	Language  string
	UserAgent string
}

// NewGoogle builds the cloud backend from cfg. An unresolved or "auto"
// language falls back to English.
func NewGoogle(cfg types.SynthConfig) *Google {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	lang := cfg.Language
	if lang == "" || lang == types.LanguageAuto {
		lang = "en"
	}
	return &Google{
		Client:    &http.Client{Timeout: timeout},
		Language:  lang,
		UserAgent: ua,
	}
}

// Name returns the backend identifier.
func (g *Google) Name() string { return string(types.EngineCloud) }

func (g *Google) MaxSegmentLen() int { return googleMaxSegmentLen }

// Synthesize fetches one MP3 fragment for seg. Transport failures map to
// the network kind; HTTP 429 and 403 map to the quota kind.
func (g *Google) Synthesize(ctx context.Context, seg types.Segment) (types.Fragment, error) {
	params := url.Values{
		"ie":      {"UTF-8"},
		"client":  {"tw-ob"},
		"tl":      {g.Language},
		"q":       {seg.Text},
		"total":   {"1"},
		"idx":     {"0"},
		"textlen": {strconv.Itoa(utf8.RuneCountInString(seg.Text))},
	}
	reqURL := googleTTSBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Fragment{}, fail(types.NetworkError, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return types.Fragment{}, fail(types.NetworkError, fmt.Errorf("segment %d: %w", seg.Index, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return types.Fragment{}, fail(types.QuotaError,
			fmt.Errorf("segment %d: endpoint returned HTTP %d", seg.Index, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return types.Fragment{}, fail(types.NetworkError,
			fmt.Errorf("segment %d: endpoint returned HTTP %d", seg.Index, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Fragment{}, fail(types.NetworkError, fmt.Errorf("segment %d: reading response: %w", seg.Index, err))
	}
	if len(data) == 0 {
		return types.Fragment{}, fail(types.NetworkError, fmt.Errorf("segment %d: empty response body", seg.Index))
	}
	return types.Fragment{Index: seg.Index, Format: types.FormatMP3, Data: data}, nil
}

// Languages lists the language codes the endpoint is known to accept,
// for the voices command.
func Languages() []string {
	return []string{
		"af", "ar", "bg", "bn", "ca", "cs", "cy", "da", "de", "el",
		"en", "es", "et", "fi", "fr", "gu", "hi", "hr", "hu", "id",
		"is", "it", "ja", "kn", "ko", "la", "lv", "ml", "mr", "ms",
		"nl", "no", "pl", "pt", "ro", "ru", "sk", "sq", "sr", "su",
		"sv", "sw", "ta", "te", "th", "tl", "tr", "uk", "ur", "vi",
		"zh-CN", "zh-TW",
	}
}
