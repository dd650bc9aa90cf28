/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "minibot/cmd"

func main() {
	cmd.Execute()
}
