package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = NewLogger()

//NewLogger 日志
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetReportCaller(true)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})
	return logger
}

const somaxconnPath = "/proc/sys/net/core/somaxconn"

//MaxListenerBacklog 获取Accept队列的最大值，读取失败时使用fallback
func MaxListenerBacklog(fallback int) int {
	return readBacklog(somaxconnPath, fallback)
}

func readBacklog(path string, fallback int) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return fallback
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return fallback
	}

	// listen的backlog在内核里是uint16
	return min(n, 1<<16-1)
}
