// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/poolhouse/poolhouse/internal/auth"
	"github.com/poolhouse/poolhouse/internal/httpapi"
	"github.com/poolhouse/poolhouse/internal/pool"
	"github.com/poolhouse/poolhouse/internal/seed"
)

var _ = Describe("REST API", Ordered, func() {
	var (
		server *httpapi.Server
		base   string
		client *http.Client
	)

	BeforeAll(func() {
		hasher := auth.NewArgon2idHasher()
		registry := auth.NewMemoryRegistry(0)

		var err error
		server, err = httpapi.NewServer(httpapi.Options{
			Addr:        "127.0.0.1:0",
			CORSOrigins: []string{"*"},
			Users:       env.Users,
			Teams:       env.Teams,
			Leagues:     env.Leagues,
			Picks:       env.Picks,
			Brackets:    env.Brackets,
			Auth:        auth.NewService(env.Users, registry, hasher),
			Hasher:      hasher,
			Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = server.Start()
		Expect(err).NotTo(HaveOccurred())
		base = "http://" + server.Addr()
		client = &http.Client{Timeout: 10 * time.Second}
	})

	AfterAll(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		Expect(server.Stop(ctx)).To(Succeed())
	})

	BeforeEach(func() {
		truncate(context.Background(), "users", "teams", "leagues", "picks", "brackets")
	})

	do := func(method, path, body string, headers map[string]string) (*http.Response, []byte) {
		GinkgoHelper()
		req, err := http.NewRequest(method, base+path, bytes.NewReader([]byte(body)))
		Expect(err).NotTo(HaveOccurred())
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := client.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		payload, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp, payload
	}

	signupAndLogin := func() (string, map[string]string) {
		GinkgoHelper()
		resp, _ := do(http.MethodPost, "/users",
			`{"email":"casey@example.com","firstName":"Casey","password":"hunter22"}`, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		resp, payload := do(http.MethodPost, "/login",
			`{"email":"casey@example.com","password":"hunter22"}`, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var login struct {
			ID     string `json:"id"`
			APIKey string `json:"apikey"`
		}
		Expect(json.Unmarshal(payload, &login)).To(Succeed())
		return login.ID, map[string]string{
			httpapi.HeaderUserID: login.ID,
			httpapi.HeaderAPIKey: login.APIKey,
		}
	}

	It("walks the full signup, login, CRUD, logout flow", func() {
		_, session := signupAndLogin()

		By("creating a team")
		resp, payload := do(http.MethodPost, "/teams",
			`{"name":"Green Bay Packers","abbreviation":"GB","isActive":true}`, session)
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		var team pool.Team
		Expect(json.Unmarshal(payload, &team)).To(Succeed())
		Expect(resp.Header.Get("Location")).To(Equal("/teams/" + team.ID.String()))

		By("reading it back")
		resp, payload = do(http.MethodGet, "/teams/"+team.ID.String(), "", session)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(payload)).To(ContainSubstring("Green Bay Packers"))

		By("replacing it")
		resp, _ = do(http.MethodPut, "/teams/"+team.ID.String(),
			`{"name":"Green Bay Packers","abbreviation":"GB","isActive":false}`, session)
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		By("deleting it")
		resp, payload = do(http.MethodDelete, "/teams/"+team.ID.String(), "", session)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(payload)).To(MatchJSON(`"success"`))

		By("logging out")
		resp, _ = do(http.MethodPost, "/logout", "", session)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		By("finding the session gone")
		resp, _ = do(http.MethodGet, "/teams", "", session)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("answers 403 with the database's message on duplicate abbreviations", func() {
		_, session := signupAndLogin()

		resp, _ := do(http.MethodPost, "/teams", `{"name":"Green Bay Packers","abbreviation":"GB"}`, session)
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		resp, payload := do(http.MethodPost, "/teams", `{"name":"Packers Again","abbreviation":"GB"}`, session)
		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
		Expect(string(payload)).To(ContainSubstring("teams_abbreviation_key"))
	})

	It("rejects every guarded route without a session", func() {
		resp, _ := do(http.MethodGet, "/teams", "", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))

		resp, _ = do(http.MethodGet, "/users", "", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("never leaks password material through the user routes", func() {
		_, session := signupAndLogin()

		resp, payload := do(http.MethodGet, "/users", "", session)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(payload)).NotTo(ContainSubstring("hunter22"))
		Expect(string(payload)).NotTo(ContainSubstring("argon2id"))
	})

	It("loads the embedded roster through the seeder", func() {
		created, skipped, err := seed.Apply(context.Background(), env.Teams)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(Equal(32))
		Expect(skipped).To(BeZero())

		created, skipped, err = seed.Apply(context.Background(), env.Teams)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeZero(), "rerun must be idempotent")
		Expect(skipped).To(Equal(32))

		_, session := signupAndLogin()
		resp, payload := do(http.MethodGet, "/teams", "", session)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var teams []pool.Team
		Expect(json.Unmarshal(payload, &teams)).To(Succeed())
		Expect(teams).To(HaveLen(32))
	})
})
