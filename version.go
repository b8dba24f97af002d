package zpy

// Version is overridable at link time:
//
//	go build -ldflags "-X github.com/shishtpal/zpy.Version=1.2.3"
var Version = "0.3.0"
