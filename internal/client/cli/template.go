package cli

const usageTemplate = `
Authd Client

Usage:
  authd-client [OPTIONS] COMMAND

Options:
  --version        Show version information
  --server URL     Server URL (default: http://localhost:8080)
  --db PATH        Path to local session database (default: authd-client.db)

Commands:
  register                Register a new account
  login                   Login and store the session locally
  logout                  Revoke refresh tokens and delete the local session
  status                  Show authentication status
  refresh                 Exchange the refresh token for a new token pair
  whoami                  Show the authenticated user's profile
  reset-request           Request a password reset token by email
  reset-complete [TOKEN]  Set a new password using a reset token

Examples:
  authd-client register
  authd-client login
  authd-client status
  authd-client reset-request
  authd-client reset-complete 3q2-8hGzv...
  authd-client --server https://auth.example.com login
`
