// Copyright 2025 Atelier Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Smtp SMTP 邮件发送配置
type Smtp struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// IMailer 定义邮件发送接口（抽象），便于测试替换
type IMailer interface {
	// SendInvitation 发送工作区邀请邮件, 失败不应阻断邀请创建
	SendInvitation(ctx context.Context, inv *Invitation) error
}

// Invitation 邀请邮件内容
type Invitation struct {
	To            string
	WorkspaceName string
	InviterName   string
	InviterEmail  string
	Role          string
	AcceptURL     string
	ExpireDays    int
}

// SmtpMailer net/smtp 实现
type SmtpMailer struct {
	conf *Smtp
}

func NewSmtpMailer(conf *Smtp) IMailer {
	return &SmtpMailer{conf: conf}
}

// SendInvitation 发送邀请邮件
func (m *SmtpMailer) SendInvitation(ctx context.Context, inv *Invitation) error {
	if !m.conf.Enabled {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	inviter := inv.InviterName
	if inv.InviterEmail != "" {
		inviter = fmt.Sprintf("%s (%s)", inv.InviterName, inv.InviterEmail)
	}
	subject := fmt.Sprintf("You've been invited to join %s", inv.WorkspaceName)
	body := fmt.Sprintf(
		"%s invited you to join the workspace %s as %s.\r\n\r\n"+
			"Accept the invitation:\r\n%s\r\n\r\n"+
			"This link expires in %d days and can be used once.\r\n",
		inviter, inv.WorkspaceName, strings.ToLower(inv.Role), inv.AcceptURL, inv.ExpireDays)

	msg := strings.Join([]string{
		"From: " + m.conf.From,
		"To: " + inv.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.conf.Host, m.conf.Port)
	var auth smtp.Auth
	if m.conf.Username != "" {
		auth = smtp.PlainAuth("", m.conf.Username, m.conf.Password, m.conf.Host)
	}
	return smtp.SendMail(addr, auth, m.conf.From, []string{inv.To}, []byte(msg))
}

// NoopMailer 空实现, 未配置 SMTP 时使用
type NoopMailer struct{}

func NewNoopMailer() IMailer {
	return &NoopMailer{}
}

func (m *NoopMailer) SendInvitation(_ context.Context, _ *Invitation) error {
	return nil
}
