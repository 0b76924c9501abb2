package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"
	"powergrades/lib/htmlutil"
	"powergrades/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

var ErrNoForm = fmt.Errorf("no form found on page")

type Options struct {
	BaseUrl string
}

type restyBrowser struct {
	http *resty.Client
}

// New creates a Browser backed by a resty client with its own cookie
// jar, scoped to the host of opts.BaseUrl.
func New(opts Options) (Browser, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "browser/http")

	return &restyBrowser{http: client}, nil
}

func (b *restyBrowser) Open(ctx context.Context, pageUrl string) (Page, error) {
	res, err := b.http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		return nil, err
	}
	return b.newPage(res)
}

func (b *restyBrowser) Close() error {
	b.http.GetClient().CloseIdleConnections()
	return nil
}

func (b *restyBrowser) newPage(res *resty.Response) (*restyPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}
	return &restyPage{
		owner: b,
		url:   res.RawResponse.Request.URL,
		body:  string(res.Body()),
		doc:   doc,
	}, nil
}

type restyPage struct {
	owner *restyBrowser
	url   *url.URL
	body  string
	doc   *goquery.Document
}

func (p *restyPage) URL() string {
	return p.url.String()
}

func (p *restyPage) Body() string {
	return p.body
}

func (p *restyPage) FirstForm() (Form, error) {
	sel := p.doc.Find("form").First()
	if len(sel.Nodes) == 0 {
		return nil, ErrNoForm
	}

	action, err := url.Parse(sel.AttrOr("action", ""))
	if err != nil {
		return nil, err
	}

	form := &restyForm{
		owner:  p.owner,
		action: p.url.ResolveReference(action),
		method: strings.ToUpper(sel.AttrOr("method", "GET")),
		fields: map[string]string{},
	}
	sel.Find("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		form.fields[name] = input.AttrOr("value", "")
	})
	return form, nil
}

func (p *restyPage) FindLink(pattern *regexp.Regexp) (Link, error) {
	for _, anchor := range htmlutil.GetAnchors(p.doc.Find("a")) {
		if !pattern.MatchString(anchor.Href) {
			continue
		}
		href, err := url.Parse(anchor.Href)
		if err != nil {
			return nil, err
		}
		return &restyLink{
			owner: p.owner,
			href:  p.url.ResolveReference(href),
		}, nil
	}
	return nil, fmt.Errorf("no link matching %q on page %s", pattern, p.url)
}

type restyForm struct {
	owner  *restyBrowser
	action *url.URL
	method string
	fields map[string]string
}

func (f *restyForm) Value(name string) (string, bool) {
	v, ok := f.fields[name]
	return v, ok
}

func (f *restyForm) Has(name string) bool {
	_, ok := f.fields[name]
	return ok
}

func (f *restyForm) Set(name, value string) {
	f.fields[name] = value
}

func (f *restyForm) Submit(ctx context.Context) (Page, error) {
	req := f.owner.http.R().SetContext(ctx)

	var res *resty.Response
	var err error
	if f.method == "GET" {
		res, err = req.SetQueryParams(f.fields).Get(f.action.String())
	} else {
		res, err = req.SetFormData(f.fields).Post(f.action.String())
	}
	if err != nil {
		return nil, err
	}
	return f.owner.newPage(res)
}

type restyLink struct {
	owner *restyBrowser
	href  *url.URL
}

func (l *restyLink) Href() string {
	return l.href.String()
}

func (l *restyLink) Follow(ctx context.Context) (Page, error) {
	return l.owner.Open(ctx, l.href.String())
}
