package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init 初始化全局 zerolog 日志：dev 环境输出易读的控制台格式，其余环境输出 JSON。
// filePath 非空时额外写入按大小滚动的 JSON 日志文件。
func Init(env, filePath string) {
	zerolog.TimeFieldFormat = time.RFC3339

	var console io.Writer = os.Stdout
	if env == "dev" {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	level := zerolog.InfoLevel
	if env == "dev" {
		level = zerolog.DebugLevel
	}

	out := console
	if filePath != "" {
		out = zerolog.MultiLevelWriter(console, rotatingFile(filePath))
	}
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func rotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // 天
		Compress:   true,
	}
}
