// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/zephyr/zephyr/internal/auth"
	"github.com/zephyr/zephyr/internal/auth/postgres"
)

var _ = Describe("CredentialStore", func() {
	var (
		ctx   context.Context
		creds *postgres.CredentialStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		creds = postgres.NewCredentialStore(testPool)
		DeferCleanup(truncateTables, ctx)
	})

	newUser := func(identifier string) *auth.UserRecord {
		user, err := auth.NewUserRecord(identifier, "$2a$04$placeholderhash", auth.RoleReserver, time.Time{})
		Expect(err).NotTo(HaveOccurred())
		return user
	}

	Describe("InsertUser and FindUserByIdentifier", func() {
		It("round-trips a user with the default birthdate", func() {
			user := newUser("a@b.com")
			Expect(creds.InsertUser(ctx, user)).To(Succeed())

			found, err := creds.FindUserByIdentifier(ctx, "a@b.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(user.ID))
			Expect(found.PasswordHash).To(Equal(user.PasswordHash))
			Expect(found.Role).To(Equal(auth.RoleReserver))
			Expect(found.Birthdate).To(Equal(auth.DefaultBirthdate))
		})

		It("matches identifiers exactly", func() {
			Expect(creds.InsertUser(ctx, newUser("a@b.com"))).To(Succeed())

			_, err := creds.FindUserByIdentifier(ctx, "A@B.COM")
			Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
		})

		It("reports unknown identifiers as not found", func() {
			_, err := creds.FindUserByIdentifier(ctx, "ghost@b.com")
			Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
		})

		It("rejects a second insert of the same identifier", func() {
			Expect(creds.InsertUser(ctx, newUser("a@b.com"))).To(Succeed())

			err := creds.InsertUser(ctx, newUser("a@b.com"))
			Expect(errors.Is(err, auth.ErrDuplicateIdentifier)).To(BeTrue())
		})

		It("admits exactly one of many concurrent inserts", func() {
			const attempts = 16
			results := make([]error, attempts)

			var wg sync.WaitGroup
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					results[i] = creds.InsertUser(ctx, newUser("race@b.com"))
				}(i)
			}
			wg.Wait()

			succeeded, duplicates := 0, 0
			for _, err := range results {
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, auth.ErrDuplicateIdentifier):
					duplicates++
				}
			}
			Expect(succeeded).To(Equal(1))
			Expect(duplicates).To(Equal(attempts - 1))
		})
	})

	Describe("InsertLoginAudit", func() {
		It("stores the pseudonym with a database timestamp", func() {
			pseudonym := auth.Pseudonymize("a@b.com")
			record, err := auth.NewLoginAuditRecord(pseudonym)
			Expect(err).NotTo(HaveOccurred())

			Expect(creds.InsertLoginAudit(ctx, record)).To(Succeed())
			Expect(record.CreatedAt).To(BeTemporally("~", time.Now(), time.Minute))

			var stored string
			Expect(testPool.QueryRow(ctx,
				`SELECT pseudonym FROM zephyr_login_audit WHERE id = $1`, record.ID.String()).
				Scan(&stored)).To(Succeed())
			Expect(stored).To(Equal(pseudonym))
		})
	})

	Describe("flows against PostgreSQL", func() {
		It("registers, authenticates and audits", func() {
			hasher, err := auth.NewBcryptHasher(4)
			Expect(err).NotTo(HaveOccurred())
			pool, err := auth.NewHashPool(hasher, 4, nil)
			Expect(err).NotTo(HaveOccurred())

			reg, err := auth.NewRegistrationService(creds, pool)
			Expect(err).NotTo(HaveOccurred())
			login, err := auth.NewAuthenticationService(creds, pool)
			Expect(err).NotTo(HaveOccurred())

			Expect(reg.Register(ctx, auth.RegistrationRequest{
				Identifier: "flow@b.com", Password: "password1", Role: auth.RoleAdministrator,
			})).To(Equal(auth.Registered))
			Expect(reg.Register(ctx, auth.RegistrationRequest{
				Identifier: "flow@b.com", Password: "password2", Role: auth.RoleReserver,
			})).To(Equal(auth.RegistrationDuplicateIdentifier))

			result := login.Login(ctx, "flow@b.com", "password1")
			Expect(result.Outcome).To(Equal(auth.Authenticated))
			Expect(result.Role).To(Equal(auth.RoleAdministrator))
			Expect(result.AuditRecorded).To(BeTrue())

			Expect(login.Login(ctx, "flow@b.com", "wrong-password").Outcome).
				To(Equal(auth.LoginInvalidCredentials))

			var count int
			Expect(testPool.QueryRow(ctx,
				`SELECT count(*) FROM zephyr_login_audit WHERE pseudonym = $1`,
				auth.Pseudonymize("flow@b.com")).Scan(&count)).To(Succeed())
			Expect(count).To(Equal(1))
		})
	})
})
