/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/folioweb/siteserver/cmd"

func main() {
	cmd.Execute()
}
