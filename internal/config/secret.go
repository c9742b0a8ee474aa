package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

var (
	ErrSecretURLInvalid  = errors.New("secret target url invalid")
	ErrSecretUserMissing = errors.New("secret target url has no user")
	ErrSecretFileEmpty   = errors.New("secret file is empty")
)

// InjectPassword 读取密码文件并写入 URL 的 userinfo 段
// 密码文件只取第一行，去除首尾空白
func InjectPassword(rawURL, passwordFile string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretURLInvalid, redactURL(rawURL))
	}
	if parsed.User == nil || parsed.User.Username() == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretUserMissing, redactURL(rawURL))
	}

	password, err := readPasswordFile(passwordFile)
	if err != nil {
		return "", err
	}
	parsed.User = url.UserPassword(parsed.User.Username(), password)
	return parsed.String(), nil
}

func readPasswordFile(path string) (string, error) {
	content, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("read secret file failed: %w", err)
	}
	line, _, _ := strings.Cut(string(content), "\n")
	password := strings.TrimSpace(line)
	if password == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretFileEmpty, path)
	}
	return password, nil
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "<unparsable>"
	}
	return parsed.Redacted()
}
