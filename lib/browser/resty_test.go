package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

const loginPageHtml = `<html><body>
<form action="/guardian/home.html" method="post">
  <input type="hidden" name="contextData" value="abc123"/>
  <input type="text" name="account"/>
  <input type="password" name="pw"/>
</form>
<a href="/guardian/studentdata.xml">Download</a>
</body></html>`

func newPortalServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginPageHtml)
	})
	mux.HandleFunc("/guardian/home.html", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("account") != "student123" || r.FormValue("contextData") != "abc123" {
			fmt.Fprint(w, `<html><div class="feedback-alert">bad</div></html>`)
			return
		}
		fmt.Fprint(w, `<html>welcome</html>`)
	})
	mux.HandleFunc("/guardian/studentdata.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<StudentRecord/>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFormSubmit(t *testing.T) {
	ctx := context.Background()
	server := newPortalServer(t)

	b, err := New(Options{BaseUrl: server.URL})
	require.NoError(t, err)
	defer b.Close()

	page, err := b.Open(ctx, server.URL)
	require.NoError(t, err)

	form, err := page.FirstForm()
	require.NoError(t, err)

	// hidden defaults are readable
	token, ok := form.Value("contextData")
	require.True(t, ok)
	require.Equal(t, "abc123", token)
	require.True(t, form.Has("pw"))
	require.False(t, form.Has("ldappassword"))

	form.Set("account", "student123")
	res, err := form.Submit(ctx)
	require.NoError(t, err)
	require.Contains(t, res.Body(), "welcome")
}

func TestFindLinkAndFollow(t *testing.T) {
	ctx := context.Background()
	server := newPortalServer(t)

	b, err := New(Options{BaseUrl: server.URL})
	require.NoError(t, err)
	defer b.Close()

	page, err := b.Open(ctx, server.URL)
	require.NoError(t, err)

	link, err := page.FindLink(regexp.MustCompile(`studentdata\.xml`))
	require.NoError(t, err)
	require.Equal(t, server.URL+"/guardian/studentdata.xml", link.Href())

	res, err := link.Follow(ctx)
	require.NoError(t, err)
	require.Equal(t, "<StudentRecord/>", res.Body())
}

func TestFirstFormMissing(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	b, err := New(Options{BaseUrl: server.URL})
	require.NoError(t, err)
	defer b.Close()

	page, err := b.Open(ctx, server.URL)
	require.NoError(t, err)

	_, err = page.FirstForm()
	require.ErrorIs(t, err, ErrNoForm)

	_, err = page.FindLink(regexp.MustCompile(`studentdata\.xml`))
	require.Error(t, err)
}
