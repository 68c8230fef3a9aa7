// Package factory builds the source adapters for each supported platform.
package factory

import (
	"fmt"

	"fjacquet/bill-merge/internal/alipayparser"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parser"
	"fjacquet/bill-merge/internal/wechatparser"
)

// GetAdapterWithLogger returns the adapter for the given platform with the
// provided logger for dependency injection.
func GetAdapterWithLogger(platform models.Platform, logger logging.Logger) (parser.SourceAdapter, error) {
	switch platform {
	case models.PlatformAlipay:
		return alipayparser.NewAdapter(logger), nil
	case models.PlatformWeChat:
		return wechatparser.NewAdapter(logger), nil
	default:
		return nil, fmt.Errorf("unknown platform: %s", platform)
	}
}

// DefaultAdapters returns every adapter in the order tables are offered to
// them: Alipay first, then WeChat.
func DefaultAdapters(logger logging.Logger) []parser.SourceAdapter {
	return []parser.SourceAdapter{
		alipayparser.NewAdapter(logger),
		wechatparser.NewAdapter(logger),
	}
}
