package crawl

import (
	"net/url"
	"path"
	"strings"
)

// Path prefixes that never hold indexable marketing/content pages.
var excludedPathPrefixes = []string{
	"/admin", "/wp-admin", "/wp-login",
	"/login", "/logout", "/signin", "/signup", "/sign-in", "/sign-up", "/register",
	"/auth", "/oauth", "/password", "/reset",
	"/account", "/profile",
	"/cart", "/checkout", "/basket", "/order",
	"/api", "/cdn-cgi",
}

// Binary and asset extensions the text extractor cannot use.
var excludedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".webp": true, ".ico": true, ".bmp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".csv": true,
	".zip": true, ".gz": true, ".tar": true, ".rar": true, ".7z": true,
	".mp3": true, ".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".wav": true,
	".css": true, ".js": true, ".json": true, ".xml": true, ".rss": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
}

// Query parameters that mark preview or credentialed URLs.
var excludedQueryParams = []string{"token", "preview", "preview_id", "auth", "session", "key", "access_token"}

// NormalizeURL canonicalizes a URL for visited-set identity: lowercase
// scheme/host, no fragment, no trailing slash except at the root.
func NormalizeURL(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	c.Fragment = ""
	if c.Path != "/" {
		c.Path = strings.TrimSuffix(c.Path, "/")
	}
	return c.String()
}

// SameDomain reports whether two URLs live on the same site, treating the
// www. variant as equal.
func SameDomain(a, b *url.URL) bool {
	return stripWWW(a.Host) == stripWWW(b.Host)
}

func stripWWW(host string) string {
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// Crawlable reports whether a URL passes the path, extension and query
// blocklists.
func Crawlable(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	p := strings.ToLower(u.Path)
	for _, prefix := range excludedPathPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return false
		}
	}
	if ext := strings.ToLower(path.Ext(p)); ext != "" && excludedExtensions[ext] {
		return false
	}
	q := u.Query()
	for _, param := range excludedQueryParams {
		if q.Has(param) {
			return false
		}
	}
	return true
}

// ResolveLink resolves an anchor href against its page and returns the
// normalized absolute URL, or false when the link is not followable.
func ResolveLink(base *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") {
		return nil, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, false
	}
	return u, true
}
