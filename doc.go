// Package registration implements an email-driven account registration
// lifecycle (token issuance, activation, optional admin approval, expiry
// sweeping) on top of Bun repositories.
//
// Lifecycle:
//   - CreateInactiveUser persists a new inactive user together with its
//     RegistrationProfile inside one transaction; the profile carries a
//     single-use 40-character hex activation key.
//   - ActivateUser consumes the key. In the standard flow the account goes
//     active immediately; with supervised approval enabled the profile is
//     only marked activated and administrators are notified, leaving the
//     account inactive until AdminApproveUser runs.
//   - DeleteExpiredUsers reaps inactive accounts whose activation window has
//     elapsed. Call it from whatever scheduler the host application uses;
//     the store performs no scheduling itself.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter describing registration,
//     activation, approval, resend, and purge events. Sinks run best-effort
//     (errors are logged) so you can forward to a database or queue without
//     blocking the lifecycle.
//
// Notifications:
//   - Outbound mail goes through the Mailer interface. Bodies are rendered
//     from embedded Django-syntax templates; an HTML alternative is attached
//     only when the configuration enables it.
package registration
