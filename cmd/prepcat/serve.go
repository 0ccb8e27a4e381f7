package main

import (
	"context"
	"fmt"
	"net/netip"
	"os"

	"github.com/fwojciec/prepcat"
	phttp "github.com/fwojciec/prepcat/http"
	"github.com/fwojciec/prepcat/prometheus"
)

// metricsNamespace prefixes every exported metric name.
const metricsNamespace = "prepcat"

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	collector := prometheus.NewCollector(metricsNamespace)
	if err := recordCatalogSize(deps.Ctx, deps.Catalog, collector); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		return err
	}

	proxies, err := parseProxies(c.TrustedProxies)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prepcat.ErrorMessage(err))
		return err
	}

	opts := []phttp.ServerOption{
		phttp.WithLogger(deps.Logger),
		phttp.WithMetrics(collector.Handler()),
		phttp.WithMiddleware(collector.Middleware),
	}
	if info, err := os.Stat(c.Public); err == nil && info.IsDir() {
		opts = append(opts, phttp.WithPublicDir(c.Public))
	} else {
		deps.Logger.Warn("static files disabled", "dir", c.Public)
	}
	if len(proxies) > 0 {
		opts = append(opts, phttp.WithTrustedProxies(proxies...))
	}
	if c.ViewRPS > 0 {
		opts = append(opts, phttp.WithViewLimiter(phttp.NewClientLimiter(c.ViewRPS, c.ViewBurst)))
	}

	srv := phttp.NewServer(
		deps.Catalog,
		prometheus.NewSearchService(deps.Search, collector),
		prometheus.NewViewService(deps.Views, collector),
		opts...,
	)

	fmt.Fprintf(deps.Stdout, "Serving on %s\n", c.Addr)
	return srv.ListenAndServe(deps.Ctx, c.Addr)
}

// recordCatalogSize publishes the catalog dimensions as gauges.
func recordCatalogSize(ctx context.Context, catalog prepcat.CatalogService, collector *prometheus.Collector) error {
	subjects, err := catalog.FindSubjects(ctx)
	if err != nil {
		return err
	}
	years, err := catalog.FindExamYears(ctx)
	if err != nil {
		return err
	}

	topics, papers := 0, 0
	for _, s := range subjects {
		topics += len(s.Topics)
	}
	for _, y := range years {
		papers += len(y.Papers)
	}
	collector.SetCatalogSize(len(subjects), topics, len(years), papers)
	return nil
}

// parseProxies parses CIDR prefixes or single addresses of trusted proxies.
func parseProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		if p, err := netip.ParsePrefix(v); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, prepcat.Errorf(prepcat.EINVALID, "invalid trusted proxy %q", v)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
