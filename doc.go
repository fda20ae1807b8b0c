// Package auth is the credential issuance and verification core: it registers
// users, verifies login credentials, and mints/validates the bearer tokens
// that gate protected routes.
//
// The moving parts, leaves first:
//   - HashPassword / ComparePasswordAndHash wrap bcrypt for one-way password
//     digests.
//   - TokenService signs and validates HS256 JWTs whose subject is the user
//     ID. Every rejected token surfaces as the same ErrTokenInvalid so the
//     codec never explains itself to an attacker.
//   - Users is the soft-delete-aware record store backed by Bun. Email
//     uniqueness is enforced by a partial unique index over non-deleted rows,
//     so concurrent registrations race safely at the database.
//   - Auther orchestrates registration, login, and token issuance.
//   - Protected is the per-request identity resolution pipeline (extract,
//     validate, look up) that attaches the resolved *User to request locals;
//     RequireActiveUser and RequireSuperuser stack behind it.
//
// Configuration (signing key, token TTL) is loaded once at startup via
// ParseEnvConfig and treated as immutable for the process lifetime.
package auth
