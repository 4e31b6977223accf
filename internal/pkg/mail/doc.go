// Package mail sends email through a configured provider.
//
// Callers build a Message and hand it to the Mail interface; SMTP (gomail)
// and SendGrid implementations live in this package and are selected by
// NewFromDriver.
package mail
