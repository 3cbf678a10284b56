package main

import (
	"flag"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"time"

	"attendance-calc/infrastructure"
	"attendance-calc/web"
)

// openBrowser は既定のブラウザで指定URLを開く
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("cmd", "/c", "start", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("ブラウザを開けませんでした: %v", err)
		log.Printf("手動で開いてください: %s", url)
	}
}

func main() {
	port := flag.Int("port", 8060, "待ち受けポート")
	classesFile := flag.String("classes", "classes.yaml", "登録授業の保存先YAML")
	noBrowser := flag.Bool("no-browser", false, "起動時にブラウザを開かない")
	flag.Parse()

	classRepo := infrastructure.NewYAMLClassRepository(*classesFile)
	fetcher := infrastructure.NewHolidayFetcher()

	server := web.NewServer(classRepo, fetcher)

	if !*noBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			url := fmt.Sprintf("http://localhost:%d", *port)
			log.Printf("ブラウザを開きます: %s", url)
			openBrowser(url)
		}()
	}

	if err := server.Start(*port); err != nil {
		log.Fatalf("サーバの起動に失敗しました: %v", err)
	}
}
