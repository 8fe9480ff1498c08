package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kradesk/internal/config"
	"kradesk/internal/exporter"
	"kradesk/internal/server"
	"kradesk/internal/util"
)

var (
	port         = flag.Int("port", 0, "服务端口 (覆盖 config.toml)")
	devMode      = flag.Bool("dev", false, "开发模式")
	dataDir      = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	templatePath = flag.String("template", "", "导出导入模板 CSV 到指定路径后退出")
)

func main() {
	flag.Parse()

	// 离线导出模板，不启动服务
	if *templatePath != "" {
		if err := exporter.WriteTemplate(*templatePath); err != nil {
			log.Fatalf("导出模板失败: %v", err)
		}
		fmt.Printf("模板已写入: %s\n", *templatePath)
		return
	}

	fmt.Println("==========================================")
	fmt.Println("  Kradesk - KRA 管理与批量导入工具")
	fmt.Println("==========================================")

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// 确保数据目录存在
	resolvedDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
	} else {
		fmt.Printf("数据目录: %s\n", resolvedDataDir)
	}

	// 创建服务器
	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.GetStore().Close(); err != nil {
		log.Printf("关闭数据库失败: %v", err)
	}
}
