// Package config 存放程序的配置信息
package config

// Initialize 触发本包各文件的 init 方法，在 main.go 中调用
func Initialize() {
	// 空函数
}
