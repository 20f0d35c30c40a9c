package cookies

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type Cookier interface {
	LoadCookies() ([]byte, error)
	SaveCookies(data []byte) error
	DeleteCookies() error
}

type localCookie struct {
	path string
}

func NewLoadCookie(path string) Cookier {
	if path == "" {
		panic("path is required")
	}

	return &localCookie{
		path: path,
	}
}

// LoadCookies 从文件中加载 cookies。
func (c *localCookie) LoadCookies() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cookies from file")
	}

	return data, nil
}

// SaveCookies 保存 cookies 到文件中。
func (c *localCookie) SaveCookies(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create cookies dir")
	}
	return os.WriteFile(c.path, data, 0o600)
}

// DeleteCookies 删除 cookies 文件。
func (c *localCookie) DeleteCookies() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete cookies file")
	}
	return nil
}

// GetCookiesFilePath 获取 cookies 文件路径。
// COOKIES_PATH 优先，否则放在数据目录下。
func GetCookiesFilePath() string {
	if path := os.Getenv("COOKIES_PATH"); path != "" {
		return path
	}

	dir := os.Getenv("SMARTX_DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	return filepath.Join(dir, "cookies.json")
}
