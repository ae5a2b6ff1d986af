//go:build windows

package osutils

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// IsAdmin checks if the current process has administrative privileges
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	if err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}
	return member
}

// EnsureFirewallRule opens the API port through Windows Firewall,
// prompting for UAC elevation when the process is not already admin.
func EnsureFirewallRule(port int) error {
	ruleName := "MacroSeq Remote Control"

	log.Printf("Firewall: checking rule '%s' for port %d", ruleName, port)

	checkCmd := exec.Command("netsh", "advfirewall", "firewall", "show", "rule", "name="+ruleName)
	output, err := checkCmd.CombinedOutput()
	outputStr := string(output)

	if err == nil && strings.Contains(outputStr, ruleName) {
		portStr := fmt.Sprintf("%d", port)
		if strings.Contains(outputStr, portStr) && strings.Contains(outputStr, "Allow") {
			log.Printf("Firewall: rule '%s' already allows port %d", ruleName, port)
			return nil
		}
		log.Printf("Firewall: rule '%s' exists with wrong port, replacing", ruleName)
	} else {
		log.Printf("Firewall: rule '%s' not found, creating", ruleName)
	}

	// Port-based rule without a -Program restriction so the rule
	// survives the binary moving between install locations.
	psCommand := fmt.Sprintf(
		"Remove-NetFirewallRule -DisplayName '%s' -ErrorAction SilentlyContinue; New-NetFirewallRule -DisplayName '%s' -Direction Inbound -LocalPort %d -Protocol TCP -Action Allow -Profile Any",
		ruleName, ruleName, port,
	)

	if !IsAdmin() {
		log.Println("Firewall: requesting UAC elevation via ShellExecute")

		verbPtr, _ := syscall.UTF16PtrFromString("runas")
		exePtr, _ := syscall.UTF16PtrFromString("powershell.exe")
		argPtr, _ := syscall.UTF16PtrFromString(fmt.Sprintf("-NoProfile -WindowStyle Hidden -Command \"%s\"", psCommand))

		var showCmd int32 = 0 // SW_HIDE

		if err := windows.ShellExecute(0, verbPtr, exePtr, argPtr, nil, showCmd); err != nil {
			return fmt.Errorf("failed to launch elevated powershell: %w", err)
		}
		log.Println("Firewall: UAC prompt requested")
		return nil
	}

	cmd := exec.Command("powershell", "-NoProfile", "-Command", psCommand)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create firewall rule: %w (output: %s)", err, string(output))
	}
	log.Printf("Firewall: rule applied for port %d", port)
	return nil
}
