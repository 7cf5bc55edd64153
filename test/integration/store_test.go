// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

//go:build integration

package integration_test

import (
	"context"
	"encoding/json"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/poolhouse/poolhouse/internal/auth"
	"github.com/poolhouse/poolhouse/internal/pool"
)

var _ = Describe("User Repository", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncate(ctx, "users")
	})

	It("round-trips a user through create and get", func() {
		user := &auth.User{
			Email:          "casey@example.com",
			FirstName:      "Casey",
			LastName:       "Jones",
			Admin:          true,
			PasswordDigest: "$argon2id$digest",
		}
		Expect(env.Users.Create(ctx, user)).To(Succeed())
		Expect(user.ID).NotTo(Equal(ulid.ULID{}))

		got, err := env.Users.Get(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Email).To(Equal("casey@example.com"))
		Expect(got.Admin).To(BeTrue())
		Expect(got.PasswordDigest).To(Equal("$argon2id$digest"))
	})

	It("finds users by email regardless of case", func() {
		user := &auth.User{Email: "Casey@Example.com", PasswordDigest: "d"}
		Expect(env.Users.Create(ctx, user)).To(Succeed())

		got, err := env.Users.GetByEmail(ctx, "casey@EXAMPLE.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(user.ID))
	})

	It("rejects a second user with the same email in different case", func() {
		Expect(env.Users.Create(ctx, &auth.User{Email: "casey@example.com", PasswordDigest: "d"})).To(Succeed())

		err := env.Users.Create(ctx, &auth.User{Email: "CASEY@example.com", PasswordDigest: "d"})
		Expect(err).To(HaveOccurred())
		_, ok := pool.AsConstraint(err)
		Expect(ok).To(BeTrue(), "duplicate email should surface as a constraint violation")
	})

	It("keeps the stored digest when replace carries no new password", func() {
		user := &auth.User{Email: "casey@example.com", PasswordDigest: "original-digest"}
		Expect(env.Users.Create(ctx, user)).To(Succeed())

		update := &auth.User{Email: "casey@example.com", FirstName: "Casey"}
		Expect(env.Users.Replace(ctx, user.ID, update)).To(Succeed())

		got, err := env.Users.Get(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.PasswordDigest).To(Equal("original-digest"))
		Expect(got.FirstName).To(Equal("Casey"))
	})

	It("swaps the digest when replace carries a new one", func() {
		user := &auth.User{Email: "casey@example.com", PasswordDigest: "original-digest"}
		Expect(env.Users.Create(ctx, user)).To(Succeed())

		update := &auth.User{Email: "casey@example.com", PasswordDigest: "new-digest"}
		Expect(env.Users.Replace(ctx, user.ID, update)).To(Succeed())

		got, err := env.Users.Get(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.PasswordDigest).To(Equal("new-digest"))
	})

	It("reports not found for absent and deleted users", func() {
		_, err := env.Users.Get(ctx, ulid.Make())
		Expect(err).To(MatchError(pool.ErrNotFound))

		user := &auth.User{Email: "casey@example.com", PasswordDigest: "d"}
		Expect(env.Users.Create(ctx, user)).To(Succeed())
		Expect(env.Users.Delete(ctx, user.ID)).To(Succeed())
		Expect(env.Users.Delete(ctx, user.ID)).To(MatchError(pool.ErrNotFound))
	})
})

var _ = Describe("Document Collections", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncate(ctx, "teams", "leagues", "picks", "brackets", "users")
	})

	It("round-trips a team document", func() {
		team := &pool.Team{
			Name:         "Green Bay Packers",
			Abbreviation: "GB",
			TeamName:     "Packers",
			ShortName:    "Green Bay",
			Division:     "North",
			Conference:   "NFC",
			Active:       true,
		}
		Expect(env.Teams.Create(ctx, team)).To(Succeed())

		got, err := env.Teams.Get(ctx, team.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("Green Bay Packers"))
		Expect(got.Active).To(BeTrue())
		Expect(got.ID).To(Equal(team.ID))
	})

	It("rejects duplicate team abbreviations", func() {
		Expect(env.Teams.Create(ctx, &pool.Team{Name: "Green Bay Packers", Abbreviation: "GB"})).To(Succeed())

		err := env.Teams.Create(ctx, &pool.Team{Name: "Packers Again", Abbreviation: "GB"})
		Expect(err).To(HaveOccurred())
		ce, ok := pool.AsConstraint(err)
		Expect(ok).To(BeTrue())
		Expect(ce.Message).To(ContainSubstring("teams_abbreviation_key"))
	})

	It("lists documents in id order", func() {
		first := &pool.Team{Name: "Chicago Bears", Abbreviation: "CHI"}
		second := &pool.Team{Name: "Detroit Lions", Abbreviation: "DET"}
		Expect(env.Teams.Create(ctx, first)).To(Succeed())
		Expect(env.Teams.Create(ctx, second)).To(Succeed())

		teams, err := env.Teams.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(teams).To(HaveLen(2))
		Expect(teams[0].ID).To(Equal(first.ID), "ulid ids are time-ordered")
	})

	It("replaces a document wholesale", func() {
		team := &pool.Team{Name: "Washington Redskins", Abbreviation: "WAS", TeamName: "Redskins"}
		Expect(env.Teams.Create(ctx, team)).To(Succeed())

		Expect(env.Teams.Replace(ctx, team.ID, &pool.Team{
			Name:         "Washington Commanders",
			Abbreviation: "WAS",
		})).To(Succeed())

		got, err := env.Teams.Get(ctx, team.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("Washington Commanders"))
		Expect(got.TeamName).To(BeEmpty(), "replace overwrites the whole document")
	})

	It("stores leagues with members and points", func() {
		league := &pool.League{
			Name:    "Office Pool",
			Year:    2026,
			Members: []string{ulid.Make().String(), ulid.Make().String()},
			Points:  map[string]float64{"week1": 12.5},
		}
		Expect(env.Leagues.Create(ctx, league)).To(Succeed())

		got, err := env.Leagues.Get(ctx, league.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Members).To(HaveLen(2))
		Expect(got.Points["week1"]).To(Equal(12.5))
	})

	It("preserves opaque pick entries byte for byte", func() {
		entry := json.RawMessage(`{"week":1,"winner":"GB","confidence":14}`)
		pick := &pool.Pick{
			User:   ulid.Make().String(),
			League: ulid.Make().String(),
			Picks:  []json.RawMessage{entry},
		}
		Expect(env.Picks.Create(ctx, pick)).To(Succeed())

		got, err := env.Picks.Get(ctx, pick.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Picks).To(HaveLen(1))
		Expect(got.Picks[0]).To(MatchJSON(entry))
	})

	It("keeps dangling references intact", func() {
		user := &auth.User{Email: "casey@example.com", PasswordDigest: "d"}
		Expect(env.Users.Create(ctx, user)).To(Succeed())

		league := &pool.League{Name: "Office Pool", Year: 2026, Members: []string{user.ID.String()}}
		Expect(env.Leagues.Create(ctx, league)).To(Succeed())

		Expect(env.Users.Delete(ctx, user.ID)).To(Succeed())

		got, err := env.Leagues.Get(ctx, league.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Members).To(ContainElement(user.ID.String()),
			"no referential integrity is enforced across collections")
	})

	It("round-trips a bracket's opaque playoff structure", func() {
		bracket := &pool.Bracket{
			Year:     2026,
			Playoffs: json.RawMessage(`{"rounds":[{"name":"wildcard","games":[]}]}`),
		}
		Expect(env.Brackets.Create(ctx, bracket)).To(Succeed())

		got, err := env.Brackets.Get(ctx, bracket.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Year).To(Equal(2026))
		Expect(got.Playoffs).To(MatchJSON(bracket.Playoffs))
	})
})
