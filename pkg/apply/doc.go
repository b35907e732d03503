// Package apply drives one job application through a site's multi-page
// apply form.
//
// A Session owns the browser, the configuration and the cached sign-in. Each
// ApplyTo call goes through RequireSignIn, which signs in first when the
// cached session is missing or stale, and then hands the posting URL to a
// Controller.
//
// The Controller is a bounded state machine:
//
//	Start -> AwaitingApplyButton -> Classifying -> {ContactInfo, Resume,
//	AdditionalQuestions} -> Classifying ... -> SubmitReady -> Done
//
// with Aborted reachable from every state. Every Classifying round first
// looks for the final submit control; when it is absent the page heading is
// classified and the matching Handler fills the page and moves on. The
// iteration bound guarantees the loop ends even when no page is ever
// recognised.
//
// Failures never escape Controller.Run or Session.ApplyTo. They are logged
// and reported in the Outcome, and the browser stays open for the next
// attempt.
package apply
