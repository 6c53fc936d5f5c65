// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http/httptest"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/kubespace/spacelet-template/pkg/observability"
	"github.com/kubespace/spacelet-template/test/registry"
)

var _ = Describe("Push", func() {
	var (
		ctx          context.Context
		renderResult *RenderResult
		err          error
	)

	BeforeEach(func() {
		ctx = observability.ContextWithLogger(context.Background(), zap.New(zap.WriteTo(GinkgoWriter), zap.UseDevMode(true)))
	})

	AfterEach(func() {
		if renderResult != nil {
			Expect(renderResult.Close()).To(Succeed())
			renderResult = nil
		}
	})

	Describe("with invalid inputs", func() {
		It("should fail with nil RenderResult", func() {
			result, err := Push(ctx, nil, PushOptions{ReferenceURL: "oci://registry.example.com/apps/shop:1.0.0", PlainHTTP: true})
			Expect(err).To(MatchError(ContainSubstring("invalid RenderResult")))
			Expect(result).To(BeNil())
		})

		It("should fail with empty directory", func() {
			result, err := Push(ctx, &RenderResult{}, PushOptions{ReferenceURL: "oci://registry.example.com/apps/shop:1.0.0"})
			Expect(err).To(MatchError(ContainSubstring("invalid RenderResult")))
			Expect(result).To(BeNil())
		})

		It("should fail without reference URL", func() {
			renderResult, err = RenderApp(AppConfig{Chart: ChartConfig{Name: "shop", Version: "1.0.0"}})
			Expect(err).NotTo(HaveOccurred())

			result, err := Push(ctx, renderResult, PushOptions{PlainHTTP: true})
			Expect(err).To(MatchError(ContainSubstring("registry URL is required")))
			Expect(result).To(BeNil())
		})

		It("should fail with nonexistent chart directory", func() {
			result, err := Push(ctx, &RenderResult{Dir: "/nonexistent/path/to/chart"}, PushOptions{ReferenceURL: "oci://registry.example.com/apps/shop:1.0.0"})
			Expect(err).To(MatchError(ContainSubstring("Chart.yaml not found")))
			Expect(result).To(BeNil())
		})

		It("should fail when the reference does not name the chart", func() {
			renderResult, err = RenderApp(AppConfig{Chart: ChartConfig{Name: "shop", Version: "1.0.0"}})
			Expect(err).NotTo(HaveOccurred())

			for _, ref := range []string{
				"oci://registry.example.com/apps/shop:2.0.0",
				"oci://registry.example.com/apps/web:1.0.0",
				"oci://registry.example.com/apps/myshop:1.0.0",
			} {
				result, err := Push(ctx, renderResult, PushOptions{ReferenceURL: ref})
				Expect(err).To(MatchError(ContainSubstring("must end with shop:1.0.0")))
				Expect(result).To(BeNil())
			}
		})
	})

	Describe("to a plain HTTP registry", func() {
		var (
			testServer *httptest.Server
			reg        *registry.Registry
		)

		referenceFor := func(server *httptest.Server, name string) string {
			listener := server.Listener.Addr().(*net.TCPAddr)
			return fmt.Sprintf("oci://localhost:%d/apps/%s", listener.Port, name)
		}

		BeforeEach(func() {
			reg = registry.New().WithAuth("testuser", "testpass")
			testServer = httptest.NewServer(reg.HandleFunc())
		})

		AfterEach(func() {
			testServer.Close()
		})

		It("should push a rendered app chart with basic auth", func() {
			renderResult, err = RenderApp(AppConfig{
				Chart:   ChartConfig{Name: "shop", Version: "1.5.0"},
				Objects: shopObjects(),
			})
			Expect(err).NotTo(HaveOccurred())

			result, err := Push(ctx, renderResult, PushOptions{
				ReferenceURL: referenceFor(testServer, "shop:1.5.0"),
				PlainHTTP:    true,
				Username:     "testuser",
				Password:     "testpass",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(result.Ref).To(ContainSubstring("localhost"))
			Expect(result.Ref).To(HaveSuffix("apps/shop:1.5.0"))
			Expect(reg.Manifests()).To(ContainElement("apps/shop:1.5.0"))
		})

		It("should not retry a rejected push forever", func() {
			renderResult, err = RenderApp(AppConfig{Chart: ChartConfig{Name: "shop", Version: "1.0.0"}})
			Expect(err).NotTo(HaveOccurred())

			result, err := Push(ctx, renderResult, PushOptions{
				ReferenceURL: referenceFor(testServer, "shop:1.0.0"),
				PlainHTTP:    true,
				Username:     "testuser",
				Password:     "wrong",
			})
			Expect(err).To(MatchError(ContainSubstring("failed to push chart to registry")))
			Expect(result).To(BeNil())
			Expect(reg.Manifests()).To(BeEmpty())
		})

		It("should work without basic auth", func() {
			noAuth := registry.New()
			noAuthServer := httptest.NewServer(noAuth.HandleFunc())
			defer noAuthServer.Close()

			renderResult, err = RenderApp(AppConfig{Chart: ChartConfig{Name: "no-auth", Version: "1.0.0"}})
			Expect(err).NotTo(HaveOccurred())

			result, err := Push(ctx, renderResult, PushOptions{
				ReferenceURL: referenceFor(noAuthServer, "no-auth:1.0.0"),
				PlainHTTP:    true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Ref).NotTo(BeEmpty())
			Expect(noAuth.Manifests()).To(ContainElement("apps/no-auth:1.0.0"))
		})
	})

	Describe("retry", func() {
		It("should retry until the operation succeeds", func() {
			calls := 0
			err := retry(ctx, logr.Discard(), backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5), func() error {
				calls++
				if calls < 3 {
					return errors.New("registry unavailable")
				}
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(3))
		})

		It("should give up after the configured retries", func() {
			calls := 0
			err := retry(ctx, logr.Discard(), backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2), func() error {
				calls++
				return errors.New("registry unavailable")
			})
			Expect(err).To(MatchError("registry unavailable"))
			Expect(calls).To(Equal(3))
		})

		It("should stop once the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			calls := 0
			err := retry(cancelled, logr.Discard(), backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5), func() error {
				calls++
				return nil
			})
			Expect(err).To(MatchError(context.Canceled))
			Expect(calls).To(BeZero())
		})
	})
})
