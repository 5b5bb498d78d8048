package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"saul/internal/api"
	"saul/internal/timeutil"
)

// CaseBackend is the part of the API client the clients and cases commands use.
type CaseBackend interface {
	ListClients(ctx context.Context) ([]api.BackendClient, error)
	CreateClient(ctx context.Context, req api.CreateClientRequest) (api.BackendClient, error)
	ListAllCases(ctx context.Context) ([]api.Case, error)
	ListCases(ctx context.Context, clientID int64) ([]api.Case, error)
	CreateCase(ctx context.Context, clientID int64, description string) (api.Case, error)
}

var _ CaseBackend = (*api.Client)(nil)

const clientRowFormat = "%-6s %-28s %-6s %-16s %s\n"

// Cases lists every case, or only those of clientID when it is set. The
// per-client endpoint omits the client name, so it is filled in from the
// client list.
func Cases(ctx context.Context, b CaseBackend, clientID int64) ([]api.Case, error) {
	if clientID <= 0 {
		return b.ListAllCases(ctx)
	}
	cases, err := b.ListCases(ctx, clientID)
	if err != nil {
		return nil, err
	}
	name := clientName(ctx, b, clientID)
	for i := range cases {
		if cases[i].ClientName == "" {
			cases[i].ClientName = name
		}
	}
	return cases, nil
}

func clientName(ctx context.Context, b CaseBackend, clientID int64) string {
	clients, err := b.ListClients(ctx)
	if err != nil {
		return ""
	}
	for _, c := range clients {
		if c.ClientID == clientID {
			return c.ClientName
		}
	}
	return ""
}

// AddClient creates a client. Only the name is required.
func AddClient(ctx context.Context, b CaseBackend, name, phone, address string) (api.BackendClient, error) {
	req := api.CreateClientRequest{
		ClientName: strings.TrimSpace(name),
		Phone:      strings.TrimSpace(phone),
		Address:    strings.TrimSpace(address),
	}
	if req.ClientName == "" {
		return api.BackendClient{}, errors.New("client name is required")
	}
	c, err := b.CreateClient(ctx, req)
	if err != nil {
		return api.BackendClient{}, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// AddCase opens a new case for clientID.
func AddCase(ctx context.Context, b CaseBackend, clientID int64, description string) (api.Case, error) {
	if clientID <= 0 {
		return api.Case{}, errors.New("--client is required")
	}
	c, err := b.CreateCase(ctx, clientID, strings.TrimSpace(description))
	if err != nil {
		return api.Case{}, fmt.Errorf("create case: %w", err)
	}
	return c, nil
}

// PrintClients writes the client table.
func PrintClients(out io.Writer, clients []api.BackendClient, now time.Time) {
	if len(clients) == 0 {
		fmt.Fprintln(out, "No clients yet")
		return
	}

	header := strings.TrimSuffix(fmt.Sprintf(clientRowFormat, "ID", "NAME", "CASES", "CREATED", "PHONE"), "\n")
	fmt.Fprintln(out, labelStyle.Render(header))
	fmt.Fprintf(out, clientRowFormat, "--", "----", "-----", "-------", "-----")

	for _, c := range clients {
		phone := ""
		if c.Phone != nil {
			phone = *c.Phone
		}
		fmt.Fprintf(out, clientRowFormat,
			strconv.FormatInt(c.ClientID, 10),
			orDash(truncate(c.ClientName, 28)),
			strconv.Itoa(c.CaseCount),
			orDash(timeutil.FormatRelative(c.CreatedAt.Time, now)),
			orDash(phone),
		)
	}
}
