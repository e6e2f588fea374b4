package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// DateTimeLayout はイベント日時の入出力形式
const DateTimeLayout = "2006-01-02 15:04:05"

func pathID(c echo.Context, name string) (int64, error) {
	return parseID(c.Param(name), name)
}

func queryID(c echo.Context, name string) (int64, error) {
	return parseID(c.QueryParam(name), name)
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" は正の整数で指定してください")
	}
	return id, nil
}

// queryInt は省略時に def を返す
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" は0以上の整数で指定してください")
	}
	return n, nil
}

func parseDateTime(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "日時は "+DateTimeLayout+" 形式で指定してください")
	}
	return t, nil
}

func formatDateTime(t time.Time) string {
	return t.In(time.Local).Format(DateTimeLayout)
}

// bindAndValidate はリクエストボディを読み込んで検証する
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	return c.Validate(dst)
}
