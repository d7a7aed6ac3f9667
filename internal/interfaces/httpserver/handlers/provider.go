package handlers

// Provider bundles the HTTP handlers for route registration.
type Provider struct {
	Chat    *ChatHandler
	Session *SessionHandler
	Crawl   *CrawlHandler
}

// NewProvider constructs the handler provider.
func NewProvider(chat *ChatHandler, session *SessionHandler, crawl *CrawlHandler) *Provider {
	return &Provider{
		Chat:    chat,
		Session: session,
		Crawl:   crawl,
	}
}
