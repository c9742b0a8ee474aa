package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dujiao-next/cart/internal/config"
	"github.com/dujiao-next/cart/internal/logger"
	"github.com/dujiao-next/cart/internal/service"
)

// tokenOptions 命令行参数
type tokenOptions struct {
	UserID uint
	Roles  []string
	Hours  int
}

// 签发本地调试用的用户令牌
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	opts, err := parseTokenFlags(os.Args[1:], cfg.UserJWT.ExpireHours, os.Stderr)
	if err != nil {
		stdLog.Printf("参数解析失败: %v", err)
		os.Exit(2)
	}
	token, expiresAt, err := service.GenerateUserJWT(cfg.UserJWT.SecretKey, opts.UserID, opts.Roles, opts.Hours)
	if err != nil {
		stdLog.Printf("签发令牌失败: %v", err)
		os.Exit(1)
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires_at=%s\n", expiresAt.Format(time.RFC3339))
}

// parseTokenFlags 解析参数；未指定有效期时使用配置默认值
func parseTokenFlags(args []string, defaultHours int, output io.Writer) (tokenOptions, error) {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		userID uint
		roles  string
		hours  int
	)
	fs.UintVar(&userID, "user", 0, "用户 ID（必填）")
	fs.StringVar(&roles, "roles", "", "角色列表，逗号分隔，例如 support,admin")
	fs.IntVar(&hours, "hours", 0, "有效期（小时），默认读取 user_jwt.expire_hours")
	if err := fs.Parse(args); err != nil {
		return tokenOptions{}, err
	}
	if userID == 0 {
		return tokenOptions{}, fmt.Errorf("-user is required")
	}
	if hours <= 0 {
		hours = defaultHours
	}
	return tokenOptions{UserID: userID, Roles: splitRoles(roles), Hours: hours}, nil
}

func splitRoles(raw string) []string {
	var roles []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles
}
