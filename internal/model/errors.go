package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MinStyleSamples is the smallest sample collection style analysis accepts
const MinStyleSamples = 5

// RecommendedStyleSamples is the sample count suggested to users
const RecommendedStyleSamples = 10

// ErrInsufficientInput matches both InsufficientInputError and EmptyInputError via errors.Is
var ErrInsufficientInput = errors.New("insufficient input")

// InsufficientInputError is returned when fewer than MinStyleSamples samples are supplied
type InsufficientInputError struct {
	Got  int
	Want int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("サンプル文が不足しています。最低%d件以上（推奨%d件）のサンプルを登録してください。（現在%d件）",
		e.Want, RecommendedStyleSamples, e.Got)
}

func (e *InsufficientInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}

// EmptyInputError is returned when a remark is requested without any memo line
type EmptyInputError struct {
	Field string
}

func (e *EmptyInputError) Error() string {
	if e.Field == "api_key" {
		return "APIキーが空です。"
	}
	return "箇条書きメモが空です。"
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}

// InvalidInputError reports a request field outside its accepted range
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("入力が不正です（%s）: %s", e.Field, e.Message)
}

// MissingCredentialError is returned when no API key is stored for the user
type MissingCredentialError struct{}

func (e *MissingCredentialError) Error() string {
	return "Gemini APIキーが未設定です。設定画面からAPIキーを保存してください。"
}

// UpstreamError is returned when the generation endpoint answers with status >= 400
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Gemini APIエラー (%d): %s", e.Status, e.Body)
}

// GRPCStatus lets callers classify the failure with status.Code.
func (e *UpstreamError) GRPCStatus() *status.Status {
	return status.New(httpToCode(e.Status), e.Error())
}

func httpToCode(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}
	if httpStatus >= 500 {
		return codes.Internal
	}
	return codes.Unknown
}

// BlockedContentError is returned when the response has no candidate or was safety-filtered
type BlockedContentError struct {
	Reason string
}

func (e *BlockedContentError) Error() string {
	return "出力がブロックされました。メモの表現を一般化してください。"
}

// Operation names the flow a MalformedResponseError came from
type Operation string

const (
	OperationAnalyze  Operation = "analyze"
	OperationGenerate Operation = "generate"
)

// MalformedResponseError is returned when the model output lacks the expected content
type MalformedResponseError struct {
	Operation Operation
	Cause     error
}

func (e *MalformedResponseError) Error() string {
	if e.Operation == OperationAnalyze {
		return "文体分析の結果を正しく取得できませんでした。もう一度お試しください。"
	}
	return "所見生成に失敗しました。もう一度お試しください。"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// ProfileLoadError is returned when an edited profile table lacks required keys
type ProfileLoadError struct {
	Missing []string
	Cause   error
}

func (e *ProfileLoadError) Error() string {
	if len(e.Missing) > 0 {
		return "文体プロファイルの必須項目が不足しています: " + strings.Join(e.Missing, ", ")
	}
	return fmt.Sprintf("文体プロファイルを読み込めませんでした: %v", e.Cause)
}

func (e *ProfileLoadError) Unwrap() error {
	return e.Cause
}
