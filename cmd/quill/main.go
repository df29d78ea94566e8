package main

import . "quill/internal/logger"
import . "quill/internal/config"
import "quill/internal/cmdline"
import "quill/internal/startup"

import "os"


func main() {
	Log.Start()
	config := GetConfig()
	code := startup.Run(cmdline.RawCommandLine(), startup.Env{Config: config})
	Log.Stop()
	os.Exit(code)
}
