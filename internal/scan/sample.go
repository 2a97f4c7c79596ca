package scan

// SampleTitle and SampleText seed a new session with a deliberately risky
// terms-of-service document so the scanner can be tried without a contract
// at hand.
const SampleTitle = "SaaS Terms of Service (Example)"

const SampleText = `TERMS OF SERVICE

1. LIMITATION OF LIABILITY. In no event shall the Company be liable for any indirect, special, incidental, or consequential damages. The total liability of the Company shall not exceed $100.
2. DISPUTE RESOLUTION. Any dispute arising out of this agreement shall be resolved through binding arbitration in the state of Delaware. You hereby waive any right to a jury trial or to participate in a class action lawsuit.
3. TERMINATION. We reserve the right to terminate your account at our sole discretion, without notice, for any reason whatsoever.
4. INDEMNIFICATION. You agree to indemnify and hold harmless the Company from any claims arising out of your use of the Service.
5. DATA USAGE. By using this service, you agree that we may share your data with third parties for marketing purposes.`
