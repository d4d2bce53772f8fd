// Package apierr は各 feature パッケージ共通のエラーモデル。
// APIError を返せば handler 側は Abort するだけでよい。
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError      { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError     { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError     { return &APIError{Code: CodeConflict, Message: msg} }
func ErrUnauthorized(msg string) *APIError { return &APIError{Code: CodeUnauthorized, Message: msg} }
func ErrForbidden(msg string) *APIError    { return &APIError{Code: CodeForbidden, Message: msg} }
func ErrInternal(msg string) *APIError     { return &APIError{Code: CodeInternal, Message: msg} }

// Invalidf: fmt 形式の INVALID_ARGUMENT
func Invalidf(format string, args ...any) *APIError {
	return ErrInvalid(fmt.Sprintf(format, args...))
}

// IsCode: err の連鎖に指定コードの APIError があるか
func IsCode(err error, code Code) bool {
	var api *APIError
	return errors.As(err, &api) && api.Code == code
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// 重複キー（MySQL 1062 / SQLite の UNIQUE・PK 制約）を CONFLICT に寄せる。それ以外はそのまま返す。
func FromDuplicate(err error, msg string) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrConflict(msg)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrConflict(msg)
		}
	}
	return err
}

// ===== gin helpers =====

type errDTO struct {
	Error *APIError `json:"error"`
}

// Body: レスポンス用のエラー本体。APIError 以外は内部エラー扱いでメッセージを伏せる。
func Body(err error) errDTO {
	var api *APIError
	if errors.As(err, &api) {
		return errDTO{Error: api}
	}
	return errDTO{Error: ErrInternal("internal error")}
}

// Abort: ステータス判定 + JSON 返却をまとめたもの
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(ToHTTPStatus(err), Body(err))
}
