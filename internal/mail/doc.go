// Package mail — транспорт почты для EmailAction.
//
// Реализации Mailer:
//   - SMTPMailer — отправка через SMTP (go-mail)
//   - LogMailer  — запись письма в лог (для разработки)
package mail
