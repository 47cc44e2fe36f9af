// Package identity implements the identity and access-control core of the
// MoodyMap backend: credential storage, bearer-token issuance and rotation,
// time-limited password-reset codes, and a resource/action permission model.
//
// Token model:
//   - Access tokens are short-lived HS256 JWTs carrying the principal id and
//     role reference. Verification is stateless; no lookup happens on the
//     request path, which is why the default lifetime stays at 10 hours.
//   - Refresh tokens are opaque random values with a single live instance per
//     principal. Every login or refresh rotates the value in place, so a
//     replayed refresh token fails even before its natural expiry.
//
// Password resets:
//   - ForgotPassword issues a 4-digit code from crypto/rand with a one hour
//     expiry and hands it to the Mailer collaborator. A successful reset
//     clears every outstanding code for that principal.
//
// Authorization:
//   - Protected operations declare (Resource, Action) requirements at
//     registration time. The AuthorizationGate loads the principal's role
//     fresh on every request and fails closed: declared-but-unmet
//     requirements, or a principal without a role, yield Forbidden.
//
// Collaborators (Mailer, RoleProvider, ExternalVerifier) are interfaces so
// transports and back ends stay out of this package. Storage runs on Bun.
package identity
